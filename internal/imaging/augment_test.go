package imaging

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestAugment_NamesAndOrder(t *testing.T) {
	img := newQuadrantImage(8, 8)
	mask := image.NewGray(image.Rect(0, 0, 8, 8))

	pairs := Augment(img, mask, "img1.png")
	want := []string{
		"rotated_90_img1.png",
		"rotated_180_img1.png",
		"rotated_270_img1.png",
		"mirrored_img1.png",
		"flipped_img1.png",
	}
	if len(pairs) != len(want) {
		t.Fatalf("pair count: got %d, want %d", len(pairs), len(want))
	}
	for i, p := range pairs {
		if p.Name != want[i] {
			t.Errorf("pair %d: got %q, want %q", i, p.Name, want[i])
		}
		if p.Image == nil || p.Mask == nil {
			t.Errorf("pair %d: missing image or mask", i)
		}
	}
}

func TestVariants(t *testing.T) {
	img := newQuadrantImage(8, 8)
	mask := image.NewGray(image.Rect(0, 0, 8, 8))

	pairs := Variants(img, mask, "a.png")
	if len(pairs) != 6 {
		t.Fatalf("pair count: got %d, want 6", len(pairs))
	}
	if pairs[0].Name != "a.png" || pairs[0].Image != image.Image(img) {
		t.Error("first variant should be the un-augmented pair")
	}
}

func TestAugment_Deterministic(t *testing.T) {
	img := newQuadrantImage(16, 16)
	mask := image.NewGray(image.Rect(0, 0, 16, 16))

	a := Augment(img, mask, "x.png")
	b := Augment(img, mask, "x.png")
	for i := range a {
		if !bytes.Equal(a[i].Image.(*image.NRGBA).Pix, b[i].Image.(*image.NRGBA).Pix) {
			t.Errorf("%s: output differs between calls", a[i].Name)
		}
	}
}

func TestAugment_DoubleApplicationIsIdentity(t *testing.T) {
	img := newQuadrantImage(12, 6)

	mirrored := transformByPrefix(t, "mirrored_")
	flipped := transformByPrefix(t, "flipped_")

	for name, fn := range map[string]func(image.Image) *image.NRGBA{"mirror": mirrored.Apply, "flip": flipped.Apply} {
		twice := fn(fn(img))
		if !bytes.Equal(twice.Pix, img.Pix) {
			t.Errorf("%s applied twice did not reproduce the original", name)
		}
	}

	r90 := transformByPrefix(t, "rotated_90_").Apply
	full := r90(r90(r90(r90(img))))
	if !bytes.Equal(full.Pix, img.Pix) {
		t.Error("four 90 degree rotations did not reproduce the original")
	}
}

func TestAugment_RotationDirection(t *testing.T) {
	// Counter-clockwise: the top-left quadrant (red) moves to the bottom-left.
	img := newQuadrantImage(10, 10)
	rotated := transformByPrefix(t, "rotated_90_").Apply(img)

	if r, g, b := rgb8(rotated.At(2, 7)); r != 255 || g != 0 || b != 0 {
		t.Errorf("bottom-left after rotate 90: got (%d,%d,%d), want red", r, g, b)
	}
}

func TestAugment_PairsStayAligned(t *testing.T) {
	const w, h = 20, 10
	img := newFilledImage(w, h, color.NRGBA{0, 0, 0, 255})
	mask := image.NewGray(image.Rect(0, 0, w, h))

	marker := image.Pt(3, 2)
	img.Set(marker.X, marker.Y, color.NRGBA{255, 255, 255, 255})
	mask.SetGray(marker.X, marker.Y, color.Gray{Y: 255})

	for _, p := range Augment(img, mask, "m.png") {
		if p.Image.Bounds() != p.Mask.Bounds() {
			t.Errorf("%s: image bounds %v != mask bounds %v", p.Name, p.Image.Bounds(), p.Mask.Bounds())
			continue
		}
		found := 0
		b := p.Image.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				iv, _, _ := rgb8(p.Image.At(x, y))
				mv, _, _ := rgb8(p.Mask.At(x, y))
				if (iv == 255) != (mv == 255) {
					t.Errorf("%s: image and mask disagree at (%d,%d)", p.Name, x, y)
				}
				if mv == 255 {
					found++
				}
			}
		}
		if found != 1 {
			t.Errorf("%s: marker count %d, want 1", p.Name, found)
		}
	}
}

func transformByPrefix(t *testing.T, prefix string) Transform {
	t.Helper()
	for _, tr := range Transforms {
		if tr.Prefix == prefix {
			return tr
		}
	}
	t.Fatalf("no transform with prefix %q", prefix)
	return Transform{}
}
