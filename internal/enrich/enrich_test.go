package enrich

import (
	"context"
	"reflect"
	"testing"
	"time"

	"mobilia/internal"
	"mobilia/internal/config"
)

func TestEnricherDisabledWithoutKey(t *testing.T) {
	e := NewEnricher(config.Config{}, nil)
	if e.Enabled() {
		t.Fatal("enricher must stay disabled without an API key")
	}

	products := []internal.ProductRecord{{Name: "Sofá Home"}}
	got := e.EnrichAll(context.Background(), products)
	if !reflect.DeepEqual(got, products) {
		t.Errorf("disabled enricher changed the input: %v", got)
	}
}

func TestApplyDraft(t *testing.T) {
	p := internal.ProductRecord{
		Name:        "sofa home",
		Code:        "AB-1",
		Description: "original",
	}
	applyDraft(&p, Draft{Name: "Sofá Home", Category: "Sofás"})

	if p.Name != "Sofá Home" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Category != "Sofás" {
		t.Errorf("Category = %q", p.Category)
	}
	// Blank model fields keep the original value.
	if p.Description != "original" {
		t.Errorf("Description = %q, want original", p.Description)
	}
	if p.Code != "AB-1" {
		t.Errorf("Code = %q, drafts never overwrite codes", p.Code)
	}
}

func TestRateLimiterSpacing(t *testing.T) {
	limiter := NewRateLimiter(30 * time.Millisecond)

	start := time.Now()
	limiter.WaitTurn()
	limiter.WaitTurn()
	limiter.WaitTurn()
	elapsed := time.Since(start)

	if elapsed < 60*time.Millisecond {
		t.Errorf("three turns finished in %v, want at least 60ms", elapsed)
	}
}
