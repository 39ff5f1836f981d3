package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"validation", domain.NewValidationError("name", "required"), "validation"},
		{"not found", domain.NewNotFoundError("animal", 1), "not_found"},
		{"conflict", domain.NewConflictError("stale"), "conflict"},
		{"identity", domain.NewIdentityMismatchError(1, 2), "identity_mismatch"},
		{"duplicate", domain.NewDuplicateLinkError("colour", 1, 2), "duplicate_link"},
		{"constraint", domain.NewConstraintViolationError(domain.ConstraintUnique, "", "dup"), "constraint_violation"},
		{"wrapped", fmt.Errorf("create: %w", domain.NewNotFoundError("breed", 3)), "not_found"},
		{"other", errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func TestRecorder_Observe(t *testing.T) {
	r := NewRecorder()

	r.Observe("animal", "create", time.Now(), nil)
	r.Observe("animal", "create", time.Now(), nil)
	r.Observe("animal", "update", time.Now(), domain.NewConflictError("stale"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.operations.WithLabelValues("animal", "create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("animal", "update", "conflict")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Observe("animal", "create", time.Now(), nil)
		r.Event("publish", "animal.created", "ok")
	})
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.Event("consume", "membership.granted", "ok")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `anidopt_events_processed_total{direction="consume",result="ok",type="membership.granted"} 1`)
}
