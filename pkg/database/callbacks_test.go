package database_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"project-service/internal/model"
	"project-service/internal/storetest"
	"project-service/pkg/database"
)

func TestMetricsCallbacksObserveEachOperation(t *testing.T) {
	db := storetest.Open(t)

	var mu sync.Mutex
	seen := map[string]int{}
	err := database.RegisterMetricsCallbacks(db, func(operation string, d time.Duration) {
		if d < 0 {
			t.Errorf("negative duration for %s", operation)
		}
		mu.Lock()
		seen[operation]++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("register callbacks: %v", err)
	}

	ctx := context.Background()
	tenant := model.Tenant{Name: "Acme", Domain: "acme"}
	if err := db.WithContext(ctx).Create(&tenant).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	var loaded model.Tenant
	if err := db.WithContext(ctx).First(&loaded, "id = ?", tenant.ID).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if err := db.WithContext(ctx).Model(&loaded).Update("name", "Acme Inc").Error; err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := db.WithContext(ctx).Delete(&loaded).Error; err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, op := range []string{"insert", "query", "update", "delete"} {
		if seen[op] == 0 {
			t.Fatalf("expected %s to be observed, got %v", op, seen)
		}
	}
}

func TestGormConfigTranslatesErrors(t *testing.T) {
	if !database.GormConfig(0).TranslateError {
		t.Fatal("expected TranslateError to be enabled")
	}
}
