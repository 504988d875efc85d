package support

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/barcli/internal/barcode"
	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/MeKo-Tech/barcli/internal/hint"
	"github.com/MeKo-Tech/barcli/internal/imageio"
	"github.com/MeKo-Tech/barcli/internal/testutil"
)

// aSymbolAt renders text as a symbol of the named format and saves it.
func (testCtx *TestContext) aSymbolAt(name, text, filename string) error {
	f, err := format.Parse(name)
	if err != nil {
		return err
	}
	size := testutil.SquareSize
	if !f.Is2D() {
		size = testutil.WideSize
	}
	img, err := barcode.NewBackend().Encode(context.Background(), text, f, size.Width, size.Height, hint.Map{})
	if err != nil {
		return fmt.Errorf("failed to encode %s fixture: %w", f, err)
	}
	path := testCtx.Path(filename)
	testCtx.TrackFile(path)
	return imageio.New(nil).Save(path, img)
}

func (testCtx *TestContext) anImageWithoutBarcodeAt(filename string) error {
	path := testCtx.Path(filename)
	testCtx.TrackFile(path)
	return imageio.New(nil).Save(path, testutil.CreateTextImage("nothing to scan", testutil.WideSize))
}

// theFileShouldDecodeAs decodes a file in-process, independent of the CLI.
func (testCtx *TestContext) theFileShouldDecodeAs(filename, name, text string) error {
	want, err := format.Parse(name)
	if err != nil {
		return err
	}
	img, _, err := imageio.New(nil).Load(testCtx.Path(filename))
	if err != nil {
		return err
	}
	res, err := barcode.NewBackend().Decode(context.Background(), img, hint.Map{})
	if err != nil {
		return fmt.Errorf("decoding %s: %w", filename, err)
	}
	if res.Format != want || res.Text != text {
		return fmt.Errorf("decoded (%s) %q, want (%s) %q", res.Format, res.Text, want, text)
	}
	return nil
}

func (testCtx *TestContext) theFilesShouldBeIdentical(a, b string) error {
	images := imageio.New(nil)
	imgA, _, err := images.Load(testCtx.Path(a))
	if err != nil {
		return err
	}
	imgB, _, err := images.Load(testCtx.Path(b))
	if err != nil {
		return err
	}
	if !testutil.SameImage(imgA, imgB) {
		return fmt.Errorf("%s and %s differ", a, b)
	}
	return nil
}

// RegisterBarcodeSteps registers fixture and decode verification steps.
func (testCtx *TestContext) RegisterBarcodeSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a (\S+) symbol "([^"]*)" at "([^"]*)"$`, testCtx.aSymbolAt)
	sc.Step(`^an image without a barcode at "([^"]*)"$`, testCtx.anImageWithoutBarcodeAt)
	sc.Step(`^the file "([^"]*)" should decode as (\S+) "([^"]*)"$`, testCtx.theFileShouldDecodeAs)
	sc.Step(`^the images "([^"]*)" and "([^"]*)" should be identical$`, testCtx.theFilesShouldBeIdentical)
}
