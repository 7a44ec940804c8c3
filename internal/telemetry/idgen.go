package telemetry

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type pinnedTraceIDKey struct{}

// WithTraceID pins the trace ID the next root span started from ctx will
// use. It lets a query identifier double as the backend trace ID.
func WithTraceID(ctx context.Context, id [16]byte) context.Context {
	return context.WithValue(ctx, pinnedTraceIDKey{}, oteltrace.TraceID(id))
}

// queryIDGenerator honours a pinned trace ID and otherwise generates random IDs.
type queryIDGenerator struct {
	mu   sync.Mutex
	rand *rand.Rand
}

var _ sdktrace.IDGenerator = (*queryIDGenerator)(nil)

func newQueryIDGenerator() *queryIDGenerator {
	var seed int64
	_ = binary.Read(crand.Reader, binary.LittleEndian, &seed)
	return &queryIDGenerator{rand: rand.New(rand.NewSource(seed))}
}

func (g *queryIDGenerator) NewIDs(ctx context.Context) (oteltrace.TraceID, oteltrace.SpanID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	tid, ok := ctx.Value(pinnedTraceIDKey{}).(oteltrace.TraceID)
	if !ok || !tid.IsValid() {
		for {
			_, _ = g.rand.Read(tid[:])
			if tid.IsValid() {
				break
			}
		}
	}
	return tid, g.newSpanID()
}

func (g *queryIDGenerator) NewSpanID(ctx context.Context, traceID oteltrace.TraceID) oteltrace.SpanID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.newSpanID()
}

func (g *queryIDGenerator) newSpanID() oteltrace.SpanID {
	var sid oteltrace.SpanID
	for {
		_, _ = g.rand.Read(sid[:])
		if sid.IsValid() {
			return sid
		}
	}
}
