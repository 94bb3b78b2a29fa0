package repo

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/stockledger-backend/pkg/errors"
)

func TestWrapRead(t *testing.T) {
	if WrapRead(nil, "stock") != nil {
		t.Fatal("expected nil for nil error")
	}

	err := WrapRead(fmt.Errorf("find: %w", gorm.ErrRecordNotFound), "stock")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if pkgerrors.As(err).Message() != "stock not found" {
		t.Fatalf("unexpected message %q", pkgerrors.As(err).Message())
	}

	err = WrapRead(errors.New("connection reset"), "stock")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestWrapWrite(t *testing.T) {
	conflict := Conflict{Message: "reference number already exists", Field: "reference_no"}

	if WrapWrite(nil, "db: insert stock", conflict) != nil {
		t.Fatal("expected nil for nil error")
	}

	err := WrapWrite(errors.New("UNIQUE constraint failed: stock.reference_no"), "db: insert stock", conflict)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if pkgerrors.As(err).Message() != conflict.Message {
		t.Fatalf("unexpected message %q", pkgerrors.As(err).Message())
	}

	err = WrapWrite(errors.New("disk full"), "db: insert stock", conflict)
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
