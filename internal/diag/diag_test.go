package diag_test

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/srcloc"
)

func TestContextOrdersDiagnosticsBySourceLocation(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(testDiscard{})
	ctx := diag.NewContext(logger)
	table := srcloc.NewTable()

	ctx.Errorf(table.At("a.algo.ts", 5, 0, 5, 0), "second")
	ctx.Errorf(table.At("a.algo.ts", 2, 0, 2, 0), "first")
	ctx.Errorf(table.At("b.algo.ts", 1, 0, 1, 0), "third")

	got := ctx.Diagnostics()
	if len(got) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(got))
	}
	if got[0].Message != "first" || got[1].Message != "second" || got[2].Message != "third" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestGateReturnsNotOKOnErrors(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(testDiscard{})
	ctx := diag.NewContext(logger)

	_, ok := ctx.Gate(func() {
		ctx.Errorf(nil, "boom")
	})
	if ok {
		t.Fatalf("expected gate to report errors present")
	}
}

func TestGateRecoversInternalError(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(testDiscard{})
	ctx := diag.NewContext(logger)

	err, _ := ctx.Gate(func() {
		ctx.Internal(nil, "unreachable: %s", "bad state")
	})
	if err == nil {
		t.Fatalf("expected internal error to be returned")
	}
	if _, ok := err.(*diag.InternalError); !ok {
		t.Fatalf("expected *diag.InternalError, got %T", err)
	}
}

type testDiscard struct{}

func (testDiscard) Write(p []byte) (int, error) { return len(p), nil }
