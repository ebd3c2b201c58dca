package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/Domenick1991/guestportal/internal/pkg/response"
	"github.com/Domenick1991/guestportal/internal/service/booking"
	"github.com/gin-gonic/gin"
)

// Multipart part names of a guest submission. The JSON payload travels in
// submissionDataField; documents are keyed by the json path of their person.
const (
	submissionDataField = "data"
	guestIDFrontField   = "guestData.idFrontFile"
	guestIDBackField    = "guestData.idBackFile"
	paymentProofField   = "paymentProofFile"
)

type GuestHandler struct {
	service      booking.GuestUseCase
	maxBodyBytes int64
}

type submitResponse struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
	Redirect  string `json:"redirect"`
}

// NewGuestHandler serves the token-scoped guest wizard. maxBodyBytes caps a
// whole submission; zero disables the cap.
func NewGuestHandler(service booking.GuestUseCase, maxBodyBytes int64) *GuestHandler {
	return &GuestHandler{service: service, maxBodyBytes: maxBodyBytes}
}

func (h *GuestHandler) Register(router *gin.RouterGroup) {
	router.GET("/invalid-link", h.invalidLink)
	router.GET("/:token", h.wizard)
	router.PUT("/:token/draft", h.saveDraft)
	router.POST("/:token/submit", h.submit)
	router.GET("/:token/thank-you", h.thankYou)
}

func thankYouPath(token string) string {
	return "/guest/" + token + "/thank-you"
}

func (h *GuestHandler) wizard(c *gin.Context) {
	access, err := h.service.ResolveGuestAccess(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, booking.ErrInvalidLink) {
			c.Redirect(http.StatusSeeOther, invalidLinkPath)
			return
		}
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, guestAccessResponse{
		Booking:         toGuestBooking(access.Booking, access.Hotel),
		Draft:           access.Draft,
		DepositDueCents: access.DepositDueCents,
		FullDueCents:    access.FullDueCents,
	})
}

func (h *GuestHandler) saveDraft(c *gin.Context) {
	var req booking.DraftInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	draft, err := h.service.SaveDraft(c.Request.Context(), c.Param("token"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

func (h *GuestHandler) submit(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.Param("token")

	access, err := h.service.ResolveGuestAccess(ctx, token)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBadRequest, "submission is too large")
			return
		}
		badRequest(c, "invalid multipart form")
		return
	}
	defer form.RemoveAll()

	var input booking.GuestSubmissionInput
	data := form.Value[submissionDataField]
	if len(data) == 0 {
		badRequest(c, "missing submission data")
		return
	}
	if err := json.Unmarshal([]byte(data[0]), &input); err != nil {
		badRequest(c, "invalid submission data")
		return
	}

	files := newFormFiles(form)
	defer files.close()

	guestFiles := booking.GuestFiles{
		Guest: booking.DocumentPair{
			IDFront: files.open(guestIDFrontField),
			IDBack:  files.open(guestIDBackField),
		},
		PaymentProof: files.open(paymentProofField),
	}
	for i := range input.Companions {
		guestFiles.Companions = append(guestFiles.Companions, booking.DocumentPair{
			IDFront: files.open(fmt.Sprintf("companions[%d].idFrontFile", i)),
			IDBack:  files.open(fmt.Sprintf("companions[%d].idBackFile", i)),
		})
	}
	if files.err != nil {
		_ = c.Error(files.err)
		badRequest(c, "could not read uploaded file")
		return
	}

	updated, err := h.service.SubmitGuestData(ctx, access.Booking.ID, input, guestFiles)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, submitResponse{
		BookingID: updated.ID,
		Status:    string(updated.Status),
		Redirect:  thankYouPath(token),
	})
}

func (h *GuestHandler) thankYou(c *gin.Context) {
	token := c.Param("token")
	confirmation, err := h.service.ResolveConfirmation(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, booking.ErrNotConfirmed) {
			c.Redirect(http.StatusSeeOther, "/guest/"+token)
			return
		}
		writeError(c, err)
		return
	}

	b := confirmation.Booking
	companions := b.Guest.Companions
	if companions == nil {
		companions = []domain.Companion{}
	}
	response.Success(c, http.StatusOK, confirmationResponse{
		Booking:        toGuestBooking(b, confirmation.Hotel),
		GuestData:      b.Guest.GuestData,
		Companions:     companions,
		PaymentDetails: b.Guest.Payment,
		Nights:         confirmation.Nights,
	})
}

func (h *GuestHandler) invalidLink(c *gin.Context) {
	response.Error(c, http.StatusGone, response.CodeInvalidLink,
		"This link is invalid, has expired or has already been used. Please contact the hotel.")
}

// formFiles opens multipart parts on demand and closes them together.
type formFiles struct {
	form   *multipart.Form
	opened []multipart.File
	err    error
}

func newFormFiles(form *multipart.Form) *formFiles {
	return &formFiles{form: form}
}

func (f *formFiles) open(field string) *domain.FileUpload {
	headers := f.form.File[field]
	if len(headers) == 0 || f.err != nil {
		return nil
	}
	header := headers[0]
	file, err := header.Open()
	if err != nil {
		f.err = fmt.Errorf("open %s: %w", field, err)
		return nil
	}
	f.opened = append(f.opened, file)
	return &domain.FileUpload{Filename: header.Filename, Size: header.Size, Content: file}
}

func (f *formFiles) close() {
	for _, file := range f.opened {
		_ = file.Close()
	}
}
