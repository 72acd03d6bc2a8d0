package internal_test

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("matches sentinels through copies and wrapping", func() {
		withCause := internal.ErrLeaveOverlap.WithCause(errors.New("db"))
		wrapped := fmt.Errorf("create leave: %w", withCause)

		Expect(errors.Is(wrapped, internal.ErrLeaveOverlap)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrIllegalTransition)).To(BeFalse())
		Expect(internal.ErrLeaveOverlap.Cause).To(BeNil())
	})

	It("finds the AppError inside a chain", func() {
		appErr, ok := internal.IsAppError(fmt.Errorf("outer: %w", internal.ErrForbidden))
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusForbidden))

		_, ok = internal.IsAppError(errors.New("plain"))
		Expect(ok).To(BeFalse())
	})

	It("reports the first field message for validation errors", func() {
		err := internal.NewValidationFieldError("reason", "reason is required", internal.ErrCodeRequired)
		Expect(err.Error()).To(Equal("reason is required"))

		status, body := err.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(BeAssignableToTypeOf(internal.Response{}))
	})
})
