package main

import (
	"testing"
)

func TestReplayCommand(t *testing.T) {
	tests := []struct {
		name        string
		trace       string
		size        int
		wantErr     bool
		wantJSON    bool
		wantContain []string
	}{
		{
			name:  "replay text",
			trace: sampleTrace,
			size:  100,
			wantContain: []string{
				"offset 0",
				"offset 30",
				"offset 50",
				"Operations: 4 (0 failed)",
				"Utilization: 40.0%",
			},
		},
		{
			name:        "replay json",
			trace:       sampleTrace,
			size:        100,
			wantJSON:    true,
			wantContain: []string{`"results"`, `"stats"`, `"offset"`},
		},
		{
			name:  "replay records failures",
			trace: `[{"op": "alloc", "size": 500}]`,
			size:  100,
			wantContain: []string{
				"failed: pool: no free block",
				"Operations: 1 (1 failed)",
			},
		},
		{
			name:    "replay rejects invalid trace",
			trace:   `[{"op": "free", "target": 0}]`,
			size:    100,
			wantErr: true,
		},
		{
			name:    "replay rejects malformed file",
			trace:   `{{{`,
			size:    100,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			quiet = false
			verbose = false
			jsonOut = tt.wantJSON
			poolSize = tt.size
			maxBlocks = 0

			args := []string{writeTrace(t, tt.trace)}

			output, err := captureOutput(t, func() error {
				return runReplay(args)
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("runReplay() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}

			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestReplayCommand_MissingFile(t *testing.T) {
	quiet = true
	verbose = false
	jsonOut = false
	poolSize = 100

	err := runReplay([]string{"no-such-trace.json"})
	if err == nil {
		t.Fatal("expected an error for a missing trace file")
	}
}
