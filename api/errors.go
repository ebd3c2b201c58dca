package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/guestportal/internal/pkg/response"
	"github.com/Domenick1991/guestportal/internal/service/booking"
	"github.com/Domenick1991/guestportal/internal/service/dashboard"
	"github.com/Domenick1991/guestportal/internal/service/hotels"
	"github.com/Domenick1991/guestportal/internal/storage"
	"github.com/gin-gonic/gin"
)

const invalidLinkPath = "/guest/invalid-link"

// writeError maps service errors onto the response envelope. Anything it does
// not recognise is reported as a generic 500; the cause is kept on the gin
// context for the error logger.
func writeError(c *gin.Context, err error) {
	var validationErr *booking.ValidationError
	var uploadErr *booking.UploadError

	switch {
	case errors.As(err, &validationErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Validation failed", validationErr.Fields)
	case errors.As(err, &uploadErr) && isRejectedUpload(uploadErr.Err):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Validation failed",
			map[string]string{uploadErr.Field: uploadErr.Err.Error()})
	case errors.Is(err, booking.ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Booking not found")
	case errors.Is(err, booking.ErrHotelNotFound), errors.Is(err, hotels.ErrHotelNotFound), errors.Is(err, dashboard.ErrHotelNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Hotel not found")
	case errors.Is(err, booking.ErrInvalidLink):
		response.ErrorWithDetails(c, http.StatusConflict, response.CodeInvalidLink, "This link is invalid or has already been used",
			gin.H{"redirect": invalidLinkPath})
	case errors.Is(err, booking.ErrInvalidTransition):
		response.Error(c, http.StatusConflict, response.CodeInvalidStatus, "Status transition is not allowed")
	case errors.Is(err, booking.ErrConflict):
		response.Error(c, http.StatusConflict, response.CodeConflict, "Booking was changed in the meantime, reload and try again")
	case errors.Is(err, booking.ErrSubmissionInProgress):
		response.Error(c, http.StatusTooManyRequests, response.CodeTooManyRequests, "Submission already in progress")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
	}
}

func isRejectedUpload(err error) bool {
	return errors.Is(err, storage.ErrEmptyFile) ||
		errors.Is(err, storage.ErrFileTooLarge) ||
		errors.Is(err, storage.ErrInvalidMimeType)
}

func badRequest(c *gin.Context, message string) {
	response.Error(c, http.StatusBadRequest, response.CodeBadRequest, message)
}
