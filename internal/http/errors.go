package http

import (
	"fmt"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/svcerrors"
)

func errNoActiveSession() *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(
		"EXP_1000",
		"no session has been started yet",
		nil,
	)
}

func errSessionNotFound(sessionID string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(
		"EXP_1001",
		fmt.Sprintf("session %q not found", sessionID),
		cause,
	)
}

func errSessionLookupFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError("EXP_9000", cause)
}
