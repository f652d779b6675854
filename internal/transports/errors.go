package transports

import (
	"fmt"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/svcerrors"
)

// Transport errors. These never surface past the batcher; they exist for the
// DeliveryAttempt audit trail and the error_code metric label.
const (
	codeEncodePayloadFailed = "TRX_9000"
	codeRequestFailed       = "TRX_9001"
	codeUnexpectedStatus    = "TRX_9002"
)

func errEncodePayloadFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeEncodePayloadFailed, fmt.Errorf("encodePayloadFailed: %w", cause))
}

func errRequestFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeRequestFailed, fmt.Errorf("requestFailed: %w", cause))
}

func errUnexpectedStatus(statusCode int) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeUnexpectedStatus, fmt.Errorf("unexpectedStatus: %d", statusCode))
}
