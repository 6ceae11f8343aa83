package database

import "testing"

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantUp      bool
		wantOK      bool
	}{
		{"up file", "20260105_120000_identity_schema.up.sql", "20260105_120000", true, true},
		{"down file", "20260105_120000_identity_schema.down.sql", "20260105_120000", false, true},
		{"no direction", "20260105_120000_identity_schema.sql", "", false, false},
		{"not sql", "20260105_120000_identity_schema.up.txt", "", false, false},
		{"no version", "readme.up.sql", "", false, false},
		{"go source", "embed.go", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, isUp, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion {
				t.Errorf("version = %q, want %q", version, tt.wantVersion)
			}
			if isUp != tt.wantUp {
				t.Errorf("isUp = %v, want %v", isUp, tt.wantUp)
			}
		})
	}
}

func TestMigrationName(t *testing.T) {
	if got := migrationName("20260105_120000_identity_schema.up.sql"); got != "identity_schema" {
		t.Errorf("migrationName() = %q, want identity_schema", got)
	}
}
