package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/batch"
	"github.com/gogpu/batch/software"
)

func TestSoftwareRegistered(t *testing.T) {
	if !IsRegistered(Software) {
		t.Fatal("software backend not registered")
	}
	if !slices.Contains(Available(), Software) {
		t.Errorf("Available() = %v, missing software", Available())
	}
}

func TestOpenSoftware(t *testing.T) {
	dev, err := Open(Software, 32, 16)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer Release(dev)
	if _, ok := dev.(*software.Device); !ok {
		t.Fatalf("Open(software) = %T", dev)
	}

	ctx, err := batch.NewContext(dev, nil, batch.WithSize(32, 16), batch.WithClearColor(batch.RGB(1, 0, 0)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Frame(func(*batch.Store) {}); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	img := Pixels(dev)
	if img == nil {
		t.Fatal("Pixels returned nil for the software device")
	}
	if c := img.RGBAAt(5, 5); c.R != 255 || c.G != 0 {
		t.Errorf("pixel = %v, want red clear", c)
	}
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open("nope", 1, 1)
	if !errors.Is(err, ErrNotAvailable) {
		t.Errorf("Open(nope) err = %v, want ErrNotAvailable", err)
	}
}

func TestDefaultFallsBack(t *testing.T) {
	failing := errors.New("no gpu here")
	Register(WGPU, func(int, int) (batch.Device, error) { return nil, failing })
	t.Cleanup(func() { Unregister(WGPU) })

	dev, name, err := Default(8, 8)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if name != Software {
		t.Errorf("Default picked %q, want software", name)
	}
	if dev == nil {
		t.Error("Default returned nil device")
	}
}

func TestDefaultNothingRegistered(t *testing.T) {
	saved := Available()
	registryMu.Lock()
	old := factories
	factories = make(map[string]Factory)
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		factories = old
		registryMu.Unlock()
	})

	if _, _, err := Default(8, 8); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("Default err = %v, want ErrNotAvailable (had %v)", err, saved)
	}
}

type bareDevice struct{ batch.Device }

func TestPixelsUnsupported(t *testing.T) {
	if img := Pixels(bareDevice{}); img != nil {
		t.Error("Pixels on a device without readback should be nil")
	}
	Release(bareDevice{}) // no Destroy method; must not panic
}
