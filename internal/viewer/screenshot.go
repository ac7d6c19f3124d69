package viewer

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// saveScreenshot writes RGBA pixels to a timestamped PNG in the working
// directory. Rows arrive bottom-up from the GPU and are flipped during
// the copy.
func saveScreenshot(pixels []byte, width, height int, stamp string) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	filename := fmt.Sprintf("dtxview_%s.png", stamp)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcY := height - 1 - y
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[srcY*rowSize:(srcY+1)*rowSize])
	}

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}
