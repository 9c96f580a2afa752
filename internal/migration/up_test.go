package migration

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/database"
)

func TestEmbeddedVersions(t *testing.T) {
	versions, err := embeddedVersions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(versions) == 0 || versions[0] != 1 {
		t.Fatalf("versions = %v; want to start at 1", versions)
	}
	for i := 1; i < len(versions); i++ {
		if versions[i] <= versions[i-1] {
			t.Fatalf("versions not sorted: %v", versions)
		}
	}
}

func TestPreviousVersion(t *testing.T) {
	versions := []int{1, 2, 5}
	tests := []struct {
		dirty int
		want  int
	}{
		{1, database.NilVersion},
		{2, 1},
		{5, 2},
		{4, 2},
	}
	for _, tc := range tests {
		if got := previousVersion(versions, tc.dirty); got != tc.want {
			t.Errorf("previousVersion(%d) = %d; want %d", tc.dirty, got, tc.want)
		}
	}
}
