package packets

import (
	"context"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for packet events.
var (
	SignalSchemaDefined  = capitan.NewSignal("packets.schema.defined", "Schema built")
	SignalLoadComplete   = capitan.NewSignal("packets.load.complete", "Load operation finished")
	SignalUpdateComplete = capitan.NewSignal("packets.update.complete", "Update operation finished")
	SignalCloneComplete  = capitan.NewSignal("packets.clone.complete", "Clone operation finished")
	SignalTableReshaped  = capitan.NewSignal("packets.table.reshaped", "Table packet rows added or removed")
	SignalEncodeComplete = capitan.NewSignal("packets.encode.complete", "Encode operation finished")
	SignalDecodeComplete = capitan.NewSignal("packets.decode.complete", "Decode operation finished")
)

// Keys for typed event data.
var (
	KeySchema      = capitan.NewStringKey("schema")
	KeyKind        = capitan.NewStringKey("kind")
	KeyFieldCount  = capitan.NewIntKey("field_count")
	KeyContentType = capitan.NewStringKey("content_type")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyAdded       = capitan.NewStringKey("added")
	KeyRemoved     = capitan.NewStringKey("removed")
	KeyError       = capitan.NewErrorKey("error")
)

// emitSchemaDefined emits an event when Define succeeds.
func emitSchemaDefined(ctx context.Context, s *Schema) {
	capitan.Emit(ctx, SignalSchemaDefined,
		KeySchema.Field(s.QualifiedName()),
		KeyKind.Field(s.kind.String()),
		KeyFieldCount.Field(len(s.layout.fields)),
	)
}

// emitLoadComplete emits an event when Load finishes.
func emitLoadComplete(ctx context.Context, s *Schema, duration time.Duration, err error) {
	emitResult(ctx, SignalLoadComplete, err,
		KeySchema.Field(s.QualifiedName()),
		KeyDuration.Field(duration),
	)
}

// emitUpdateComplete emits an event when Update finishes.
func emitUpdateComplete(ctx context.Context, s *Schema, duration time.Duration, err error) {
	emitResult(ctx, SignalUpdateComplete, err,
		KeySchema.Field(s.QualifiedName()),
		KeyDuration.Field(duration),
	)
}

// emitCloneComplete emits an event when Clone finishes.
func emitCloneComplete(ctx context.Context, s *Schema, duration time.Duration, err error) {
	emitResult(ctx, SignalCloneComplete, err,
		KeySchema.Field(s.QualifiedName()),
		KeyDuration.Field(duration),
	)
}

// emitTableReshaped emits an event when a table packet gains or loses rows.
func emitTableReshaped(ctx context.Context, s *Schema, added, removed []string) {
	capitan.Emit(ctx, SignalTableReshaped,
		KeySchema.Field(s.QualifiedName()),
		KeyAdded.Field(strings.Join(added, ",")),
		KeyRemoved.Field(strings.Join(removed, ",")),
	)
}

// emitEncodeComplete emits an event when Dumps or DumpZ finishes.
func emitEncodeComplete(ctx context.Context, contentType string, s *Schema, size int, duration time.Duration, err error) {
	emitResult(ctx, SignalEncodeComplete, err,
		KeyContentType.Field(contentType),
		KeySchema.Field(s.QualifiedName()),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	)
}

// emitDecodeComplete emits an event when Loads or LoadZ finishes.
func emitDecodeComplete(ctx context.Context, contentType string, s *Schema, size int, duration time.Duration, err error) {
	emitResult(ctx, SignalDecodeComplete, err,
		KeyContentType.Field(contentType),
		KeySchema.Field(s.QualifiedName()),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	)
}

// emitResult emits sig as an error event when err is set.
func emitResult(ctx context.Context, sig capitan.Signal, err error, fields ...capitan.Field) {
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, sig, fields...)
		return
	}
	capitan.Emit(ctx, sig, fields...)
}
