package classifier

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gatekeep/internal/pkg/config"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/gatekeep/internal/pkg/instrument"
)

// Handler builds the response for an error condition. Timestamp is always
// set by the classifier; StatusCode and ErrorCode are filled from the matched
// tag when left zero.
//
// A handler must not panic; if it does, the condition is re-dispatched as an
// internal error to the catch-all.
type Handler func(ctx context.Context, err *goerror.Error, cfg config.Config) ErrorResponse

// ValidationHandler reports every violation as "path: message", in evaluation order.
func ValidationHandler(_ context.Context, err *goerror.Error, _ config.Config) ErrorResponse {
	return ErrorResponse{
		ErrorCode: goerror.ValidationFailed.Code(),
		Message:   messageOf(err),
		Details:   List(err.Violations().Details()...),
	}
}

// GenericHandler reports the condition message and its diagnostic reason.
func GenericHandler(_ context.Context, err *goerror.Error, _ config.Config) ErrorResponse {
	resp := ErrorResponse{
		ErrorCode: err.Code(),
		Message:   messageOf(err),
	}
	if reason := err.Reason(); reason != "" {
		resp.Details = Text(reason)
	}
	return resp
}

// InternalHandler logs the cause and answers with a redacted message. Only
// the correlation ID of the request is exposed.
func InternalHandler(ctx context.Context, err *goerror.Error, _ config.Config) ErrorResponse {
	slog.ErrorContext(ctx, "internal error", "error", err.String())

	return ErrorResponse{
		ErrorCode: goerror.Internal.Code(),
		Message:   goerror.Internal.Message(),
		Details:   reference(ctx),
	}
}

// CatchAllHandler answers with the generic message of goerror.Any.
func CatchAllHandler(ctx context.Context, err *goerror.Error, _ config.Config) ErrorResponse {
	slog.ErrorContext(ctx, "unhandled error condition", "tag", err.Tag().String(), "error", err.String())

	return ErrorResponse{
		Message: goerror.Any.Message(),
		Details: reference(ctx),
	}
}

func messageOf(err *goerror.Error) string {
	if msg := err.Msg(); msg != "" {
		return msg
	}
	return err.Tag().Message()
}

func reference(ctx context.Context) Details {
	if cid := instrument.GetCorrelationID(ctx); cid != "" {
		return Text("reference: " + cid)
	}
	return Details{}
}
