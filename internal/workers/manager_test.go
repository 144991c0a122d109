package workers

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

type fakeWorker struct {
	name     string
	startErr error
	events   *[]string
}

func (f *fakeWorker) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	*f.events = append(*f.events, "start:"+f.name)
	return nil
}

func (f *fakeWorker) Stop() {
	*f.events = append(*f.events, "stop:"+f.name)
}

func (f *fakeWorker) Name() string {
	return f.name
}

func TestManager(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		failOn     string
		wantErr    bool
		wantEvents []string
	}{
		{
			name:       "start and stop in reverse order",
			wantEvents: []string{"start:a", "start:b", "start:c", "stop:c", "stop:b", "stop:a"},
		},
		{
			name:       "failure stops started workers",
			failOn:     "c",
			wantErr:    true,
			wantEvents: []string{"start:a", "start:b", "stop:b", "stop:a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []string
			var ws []Worker
			for _, n := range []string{"a", "b", "c"} {
				w := &fakeWorker{name: n, events: &events}
				if n == tt.failOn {
					w.startErr = errors.New("boom")
				}
				ws = append(ws, w)
			}

			m := NewManager(logger, ws...)
			err := m.Start()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Start() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				m.Stop()
			}
			// a second Stop is a no-op
			m.Stop()

			if !reflect.DeepEqual(events, tt.wantEvents) {
				t.Errorf("events = %v, want %v", events, tt.wantEvents)
			}
		})
	}
}
