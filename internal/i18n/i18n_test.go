package i18n

import (
	"context"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "ExamNotFound")
	if got != "Exam not found." {
		t.Errorf("T(ExamNotFound) = %q, want 'Exam not found.'", got)
	}

	got = T(ctx, "AlreadySubmitted")
	if got != "Homework has already been submitted." {
		t.Errorf("T(AlreadySubmitted) = %q, want 'Homework has already been submitted.'", got)
	}
}

func TestTranslateTurkish(t *testing.T) {
	ctx := initLang(t, "tr")

	got := T(ctx, "ExamNotFound")
	if got != "Sınav bulunamadı." {
		t.Errorf("T(ExamNotFound) = %q, want 'Sınav bulunamadı.'", got)
	}

	got = T(ctx, "DueDatePassed")
	if got != "Bu ödevin teslim tarihi geçmiş." {
		t.Errorf("T(DueDatePassed) = %q, want 'Bu ödevin teslim tarihi geçmiş.'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got1 := Tp(ctx, "StudentsAssigned", 1)
	if got1 != "Homework assigned to 1 student." {
		t.Errorf("Tp(StudentsAssigned, 1) = %q, want 'Homework assigned to 1 student.'", got1)
	}

	got5 := Tp(ctx, "StudentsAssigned", 5)
	if got5 != "Homework assigned to 5 students." {
		t.Errorf("Tp(StudentsAssigned, 5) = %q, want 'Homework assigned to 5 students.'", got5)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "ExamN", map[string]any{"ID": 42})
	if got != "Exam #42" {
		t.Errorf("Td(ExamN, ID=42) = %q, want 'Exam #42'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestAcceptLanguageFallback(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	// Unknown language falls back to the bundle default.
	loc := NewLocalizer("de", "en")
	ctx := WithLocalizer(context.Background(), loc)
	got := T(ctx, "Forbidden")
	if got != "You do not have permission to perform this action." {
		t.Errorf("T(Forbidden) with de->en fallback = %q", got)
	}
}
