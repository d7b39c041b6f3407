package markdown

import (
	"strings"
	"testing"
)

type panicRenderer struct{}

func (panicRenderer) Render(string) (string, error) {
	panic("boom")
}

func TestSafeRender_RecoversFromRendererPanic(t *testing.T) {
	const renderWidth = 20

	rendererMu.Lock()
	prev, hadPrev := renderers[renderWidth]
	renderers[renderWidth] = panicRenderer{}
	rendererMu.Unlock()

	defer func() {
		rendererMu.Lock()
		if hadPrev {
			renderers[renderWidth] = prev
		} else {
			delete(renderers, renderWidth)
		}
		rendererMu.Unlock()
	}()

	out := SafeRender(renderWidth, "hello\n")
	if out != "hello" {
		t.Fatalf("expected fallback to original markdown, got %q", out)
	}
}

func TestRender_Blank(t *testing.T) {
	if out := Render(40, 2, " \n\n"); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestRender_IndentsEveryLine(t *testing.T) {
	out := Render(40, 4, "- uno\n- dos\n")
	if !strings.Contains(out, "uno") || !strings.Contains(out, "dos") {
		t.Fatalf("expected list items, got %q", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if line != "" && !strings.HasPrefix(line, "    ") {
			t.Fatalf("expected indented line, got %q", line)
		}
	}
}
