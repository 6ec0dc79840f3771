package application

import (
	"context"
	"errors"
	"testing"
)

func TestTemplateService_CreateTemplate(t *testing.T) {
	t.Run("applies the icon default", func(t *testing.T) {
		repo := newTemplateRepositoryStub()
		svc := NewTemplateService(repo, sequentialIDs("tpl"), nil)

		template, err := svc.CreateTemplate(context.Background(), TemplateInput{
			Name:        " Morning Routine ",
			Description: "Start the day right",
			Prompt:      "Plan a calm morning",
		})
		if err != nil {
			t.Fatalf("CreateTemplate failed: %v", err)
		}
		if template.Icon != "Calendar" {
			t.Fatalf("expected default icon, got %q", template.Icon)
		}
		if template.Name != "Morning Routine" {
			t.Fatalf("name must be trimmed, got %q", template.Name)
		}
	})

	t.Run("rejects missing fields together", func(t *testing.T) {
		svc := NewTemplateService(newTemplateRepositoryStub(), nil, nil)

		_, err := svc.CreateTemplate(context.Background(), TemplateInput{})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"name", "description", "prompt"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected error for %s, got %#v", field, vErr.FieldErrors)
			}
		}
	})
}

func TestTemplateService_SeedDefaults(t *testing.T) {
	repo := newTemplateRepositoryStub()
	svc := NewTemplateService(repo, nil, nil)

	if err := svc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	if len(repo.templates) != len(defaultTemplates) {
		t.Fatalf("expected %d seeded templates, got %d", len(defaultTemplates), len(repo.templates))
	}

	// Seeding again must be a no-op, not an error.
	if err := svc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("second SeedDefaults failed: %v", err)
	}
	if len(repo.templates) != len(defaultTemplates) {
		t.Fatalf("reseeding must not duplicate templates, got %d", len(repo.templates))
	}

	templates, err := svc.ListTemplates(context.Background())
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	if len(templates) != len(defaultTemplates) {
		t.Fatalf("expected %d listed templates, got %d", len(defaultTemplates), len(templates))
	}
	for _, template := range templates {
		if !template.IsDefault {
			t.Fatalf("seeded template must be a system template: %#v", template)
		}
	}
}
