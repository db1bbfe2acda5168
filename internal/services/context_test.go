package services_test

import (
	"context"
	"testing"

	"mediasort/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithEntity(ctx, "CYCLONE-3rd")
	ctx = services.WithStage(ctx, "organize")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if entity, ok := services.EntityFromContext(ctx); !ok || entity != "CYCLONE-3rd" {
		t.Fatalf("unexpected entity: %v %v", entity, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "organize" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithEntity(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.EntityFromContext(ctx); ok {
		t.Fatal("expected no entity value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
