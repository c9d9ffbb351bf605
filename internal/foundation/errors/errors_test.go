package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "feed title missing").
			WithSeverity(SeverityFatal).
			WithContext("flag", "-t").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "feed title missing" {
			t.Errorf("expected message 'feed title missing', got %s", err.Message())
		}

		flag, exists := err.Context().GetString("flag")
		if !exists || flag != "-t" {
			t.Errorf("expected context flag=-t, got %v", flag)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := SubprocessError("filter failed").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategorySubprocess) {
			t.Error("expected error to have subprocess category")
		}
		if !err.IsFatal() {
			t.Error("expected subprocess error to be fatal")
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := FileSystemError("write page").Build()
		wrapped := fmt.Errorf("build: %w", inner)

		if GetCategory(wrapped) != CategoryFileSystem {
			t.Errorf("expected filesystem category through %%w, got %s", GetCategory(wrapped))
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected unclassified error to report internal category")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := WrapError(originalErr, CategoryFileSystem, "create output directory").
		Warning().
		WithContext("path", "build/posts").
		Build()

	if err.Severity() != SeverityWarning {
		t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
	}
	if !errors.Is(err, originalErr) {
		t.Error("expected error to wrap original error")
	}
	want := "[filesystem:warning] create output directory: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSentinelMatching(t *testing.T) {
	sentinel := FormatError("write archive").Build()
	err := FormatError("write archive").WithCause(errors.New("disk full")).Build()

	if !errors.Is(err, sentinel) {
		t.Error("expected errors with same category and message to match")
	}
	if errors.Is(err, FormatError("write feed").Build()) {
		t.Error("expected different messages not to match")
	}
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := ConfigError("bad value").Build()
	derived := base.WithContext("field", "news.mode")

	if _, ok := base.Context().Get("field"); ok {
		t.Error("expected original context to stay untouched")
	}
	if v, _ := derived.Context().GetString("field"); v != "news.mode" {
		t.Errorf("expected derived context field=news.mode, got %q", v)
	}
}
