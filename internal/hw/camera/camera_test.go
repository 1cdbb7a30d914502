package camera

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRaspistillArgs(t *testing.T) {
	tests := []struct {
		name string
		cam  Raspistill
		want []string
	}{
		{
			name: "plain",
			cam:  Raspistill{Quality: 90},
			want: []string{"-q", "90", "-o", "/tmp/a.jpeg"},
		},
		{
			name: "both flips",
			cam:  Raspistill{Quality: 75, VFlip: true, HFlip: true},
			want: []string{"-q", "75", "-o", "/tmp/a.jpeg", "-vf", "-hf"},
		},
		{
			name: "vflip only",
			cam:  Raspistill{Quality: 90, VFlip: true},
			want: []string{"-q", "90", "-o", "/tmp/a.jpeg", "-vf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cam.args("/tmp/a.jpeg")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("args = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLibcameraArgs(t *testing.T) {
	cam := Libcamera{Quality: 90, VFlip: true, HFlip: true}
	want := []string{"-n", "-q", "90", "-o", "/tmp/b.jpeg", "--vflip", "--hflip"}
	if got := cam.args("/tmp/b.jpeg"); !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestMockShootWritesJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.jpeg")
	cam := &Mock{}

	if err := cam.Shoot(path); err != nil {
		t.Fatalf("Shoot: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read capture: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Error("capture missing JPEG start marker")
	}
	if !bytes.HasSuffix(data, []byte{0xFF, 0xD9}) {
		t.Error("capture missing JPEG end marker")
	}
}

func TestMockShootMissingDirFails(t *testing.T) {
	cam := &Mock{}
	err := cam.Shoot(filepath.Join(t.TempDir(), "nope", "shot.jpeg"))
	if err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}

// Compile-time interface checks.
var (
	_ Camera = &Raspistill{}
	_ Camera = &Libcamera{}
	_ Camera = &Mock{}
)
