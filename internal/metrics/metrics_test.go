package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Fold(t *testing.T) {
	m := NewMetrics()
	m.Fold("svm", nil, 90, time.Second)
	m.Fold("svm", nil, 80, time.Second)
	m.Fold("svm", errors.New("singular"), 0, 0)
	m.Classes("svm", 39, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.prometheus.Folds.WithLabelValues("svm", OK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prometheus.Folds.WithLabelValues("svm", Failed)))
	assert.Equal(t, 39.0, testutil.ToFloat64(m.prometheus.Classes.WithLabelValues("svm", OK)))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `bench_folds{pipeline="svm",status="ok"} 2`), body)
	assert.True(t, strings.Contains(body, `bench_fold_accuracy_count{pipeline="svm"} 2`), body)
}
