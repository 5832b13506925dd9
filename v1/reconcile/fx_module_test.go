package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/floatrouter/v1/logger"
)

func TestFXModuleSchedulesPasses(t *testing.T) {
	vectors := newMemVectors()
	sink := &recordingSink{}

	cfg := DefaultConfig()
	cfg.Interval = 20 * time.Millisecond

	var r *Reconciler
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(
			func() Store { return newMemStore("f1", "f2") },
			func() VectorStore { return vectors },
			func() Embedder { return &stubEmbedder{} },
			func() Logger { return logger.NewNop() },
			func() AuditSink { return sink },
		),
		FXModule,
		ScheduleModule,
		fx.Populate(&r),
	)
	app.RequireStart()

	require.Eventually(t, func() bool { return vectors.count() == 2 }, 2*time.Second, 10*time.Millisecond)
	app.RequireStop()

	assert.Equal(t, StatusSuccess, r.Reconcile(context.Background()).Status)
}
