package render

import (
	"context"
	"testing"

	"github.com/lumenwell/capreport/pkg/errors"
)

func TestToPDFNoBrowser(t *testing.T) {
	t.Setenv("PATH", "")

	_, err := ToPDF(context.Background(), "<!DOCTYPE html><html></html>")
	if errors.GetCode(err) != errors.ErrCodeRendererNotFound {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeRendererNotFound)
	}
}

func TestToPNGNoBrowser(t *testing.T) {
	t.Setenv("PATH", "")

	_, err := ToPNG(context.Background(), "<!DOCTYPE html><html></html>", 794)
	if errors.GetCode(err) != errors.ErrCodeRendererNotFound {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeRendererNotFound)
	}
}
