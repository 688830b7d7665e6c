package main

import (
	"testing"

	"tdsk-analytics/internal/logging"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		quiet   bool
		verbose bool
		want    logging.Level
		wantErr bool
	}{
		{name: "default", want: logging.LevelInfo},
		{name: "quiet", quiet: true, want: logging.LevelQuiet},
		{name: "verbose", verbose: true, want: logging.LevelDebug},
		{name: "both rejected", quiet: true, verbose: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := logLevel(tt.quiet, tt.verbose)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error for -quiet with -verbose")
				}
				return
			}
			if err != nil {
				t.Fatalf("logLevel: %v", err)
			}
			if got != tt.want {
				t.Fatalf("logLevel = %v, want %v", got, tt.want)
			}
		})
	}
}
