package http

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fieldops-backend/internal/domain/access"
	"fieldops-backend/internal/domain/photo"
	ucSubmission "fieldops-backend/internal/usecase/submission"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	formPhotos         = "photos"
	formExistingPhotos = "existingPhotos"
	mimeXLSX           = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type SubmissionHandler struct {
	uc  *ucSubmission.Usecase
	log *zap.Logger
}

func NewSubmissionHandler(uc *ucSubmission.Usecase, log *zap.Logger) *SubmissionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SubmissionHandler{uc: uc, log: log}
}

type createSubmissionReq struct {
	SupervisorID         string           `json:"supervisorId"          validate:"max=64"`
	SupervisorName       string           `json:"supervisorName"        validate:"required,max=255"`
	WorkOrderID          string           `json:"workOrderId"           validate:"max=32"`
	LineItemID           string           `json:"lineItemId"            validate:"required,max=32"`
	Quantity             *decimal.Decimal `json:"quantity"              validate:"required,nonneg,dec4"`
	ActualManpower       string           `json:"actualManpower"        validate:"required"`
	MaterialConsumed     string           `json:"materialConsumed"`
	ExistingPhotos       []string         `json:"existingPhotos"        validate:"dive,required"`
	PreviousSubmissionID string           `json:"previousSubmissionId"  validate:"max=32"`
	PreviousVersion      *int64           `json:"previousVersion"       validate:"omitempty,gte=1"`
}

type validateReq struct {
	Status   string           `json:"status"   validate:"required"`
	Remarks  *string          `json:"remarks"  validate:"omitempty,max=2000"`
	Quantity *decimal.Decimal `json:"quantity" validate:"omitempty,nonneg,dec4"`
	Version  *int64           `json:"version"  validate:"omitempty,gte=1"`
}

type resubmitReq struct {
	SupervisorID     string           `json:"supervisorId"     validate:"max=64"`
	Quantity         *decimal.Decimal `json:"quantity"         validate:"omitempty,nonneg,dec4"`
	ActualManpower   *string          `json:"actualManpower"`
	MaterialConsumed *string          `json:"materialConsumed"`
	Version          *int64           `json:"version"          validate:"omitempty,gte=1"`
}

type adminRemarkReq struct {
	AdminRemarks *string `json:"adminRemarks" validate:"required,max=4000"`
	Version      *int64  `json:"version"      validate:"omitempty,gte=1"`
}

// Create accepts JSON, or multipart with "photos" files and repeated "existingPhotos".
func (h *SubmissionHandler) Create(c echo.Context) error {
	var req createSubmissionReq
	var uploads []photo.Upload
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return badRequest(c, "invalid multipart body")
		}
		details := readCreateForm(form, &req)
		if len(details) > 0 {
			return validationFailed(c, details)
		}
		var done func()
		uploads, done, err = openUploads(form)
		if err != nil {
			return badRequest(c, "unreadable photo upload")
		}
		defer done()
	} else if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, ToFieldErrors(err))
	}

	scope, err := scopeFor(c, access.RoleSupervisor, strings.TrimSpace(req.SupervisorID))
	if err != nil {
		return respondError(c, h.log, err)
	}
	view, err := h.uc.Create(c.Request().Context(), scope, ucSubmission.CreateInput{
		SupervisorID:         strings.TrimSpace(req.SupervisorID),
		SupervisorName:       strings.TrimSpace(req.SupervisorName),
		WorkOrderID:          strings.TrimSpace(req.WorkOrderID),
		LineItemID:           strings.TrimSpace(req.LineItemID),
		Quantity:             *req.Quantity,
		ActualManpower:       req.ActualManpower,
		MaterialConsumed:     req.MaterialConsumed,
		ExistingPhotos:       req.ExistingPhotos,
		PreviousSubmissionID: strings.TrimSpace(req.PreviousSubmissionID),
		PreviousVersion:      req.PreviousVersion,
		Photos:               uploads,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	setETag(c, view.Version)
	return c.JSON(http.StatusCreated, view)
}

func (h *SubmissionHandler) List(c echo.Context) error {
	scope, err := scopeFor(c, "", "")
	if err != nil {
		return respondError(c, h.log, err)
	}
	rows, err := h.uc.List(c.Request().Context(), scope, c.QueryParam("status"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// Export streams List as an xlsx attachment.
func (h *SubmissionHandler) Export(c echo.Context) error {
	scope, err := scopeFor(c, "", "")
	if err != nil {
		return respondError(c, h.log, err)
	}
	buf, err := h.uc.Export(c.Request().Context(), scope, c.QueryParam("status"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	name := "submissions-" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
}

func (h *SubmissionHandler) Get(c echo.Context) error {
	scope, err := scopeFor(c, "", "")
	if err != nil {
		return respondError(c, h.log, err)
	}
	view, err := h.uc.Get(c.Request().Context(), scope, c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	setETag(c, view.Version)
	return c.JSON(http.StatusOK, view)
}

func (h *SubmissionHandler) History(c echo.Context) error {
	scope, err := scopeFor(c, "", "")
	if err != nil {
		return respondError(c, h.log, err)
	}
	rows, err := h.uc.History(c.Request().Context(), scope, c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *SubmissionHandler) Validate(c echo.Context) error {
	var req validateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, ToFieldErrors(err))
	}
	version, ok := expectedVersion(c, req.Version)
	if !ok {
		return validationFailed(c, []FieldError{{Field: headerIfMatch, Message: "must be a positive version"}})
	}
	scope, err := scopeFor(c, access.RoleValidator, "")
	if err != nil {
		return respondError(c, h.log, err)
	}
	view, err := h.uc.Validate(c.Request().Context(), scope, c.Param("id"), ucSubmission.ValidateInput{
		Status:          req.Status,
		Remarks:         req.Remarks,
		Quantity:        req.Quantity,
		ExpectedVersion: version,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	setETag(c, view.Version)
	return c.JSON(http.StatusOK, view)
}

// Resubmit serves the legacy PUT /submissions/:id. The answer is the new linked record.
func (h *SubmissionHandler) Resubmit(c echo.Context) error {
	var req resubmitReq
	var uploads []photo.Upload
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return badRequest(c, "invalid multipart body")
		}
		details := readResubmitForm(form, &req)
		if len(details) > 0 {
			return validationFailed(c, details)
		}
		var done func()
		uploads, done, err = openUploads(form)
		if err != nil {
			return badRequest(c, "unreadable photo upload")
		}
		defer done()
	} else if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, ToFieldErrors(err))
	}
	version, ok := expectedVersion(c, req.Version)
	if !ok {
		return validationFailed(c, []FieldError{{Field: headerIfMatch, Message: "must be a positive version"}})
	}
	scope, err := scopeFor(c, access.RoleSupervisor, strings.TrimSpace(req.SupervisorID))
	if err != nil {
		return respondError(c, h.log, err)
	}
	view, err := h.uc.Resubmit(c.Request().Context(), scope, c.Param("id"), ucSubmission.ResubmitInput{
		Quantity:         req.Quantity,
		ActualManpower:   req.ActualManpower,
		MaterialConsumed: req.MaterialConsumed,
		Photos:           uploads,
		ExpectedVersion:  version,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	setETag(c, view.Version)
	return c.JSON(http.StatusCreated, view)
}

func (h *SubmissionHandler) AdminRemark(c echo.Context) error {
	var req adminRemarkReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, ToFieldErrors(err))
	}
	version, ok := expectedVersion(c, req.Version)
	if !ok {
		return validationFailed(c, []FieldError{{Field: headerIfMatch, Message: "must be a positive version"}})
	}
	scope, err := scopeFor(c, access.RoleAdmin, "")
	if err != nil {
		return respondError(c, h.log, err)
	}
	view, err := h.uc.SetAdminRemarks(c.Request().Context(), scope, c.Param("id"), ucSubmission.AdminRemarksInput{
		AdminRemarks:    *req.AdminRemarks,
		ExpectedVersion: version,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	setETag(c, view.Version)
	return c.JSON(http.StatusOK, view)
}

// ---- multipart ----

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

func formValue(form *multipart.Form, key string) (string, bool) {
	vs, ok := form.Value[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func formDecimal(form *multipart.Form, key string, dst **decimal.Decimal) *FieldError {
	raw, ok := formValue(form, key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return &FieldError{Field: key, Message: "must be a number"}
	}
	*dst = &d
	return nil
}

func formInt(form *multipart.Form, key string, dst **int64) *FieldError {
	raw, ok := formValue(form, key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return &FieldError{Field: key, Message: "must be an integer"}
	}
	*dst = &n
	return nil
}

func readCreateForm(form *multipart.Form, req *createSubmissionReq) []FieldError {
	req.SupervisorID, _ = formValue(form, "supervisorId")
	req.SupervisorName, _ = formValue(form, "supervisorName")
	req.WorkOrderID, _ = formValue(form, "workOrderId")
	req.LineItemID, _ = formValue(form, "lineItemId")
	req.ActualManpower, _ = formValue(form, "actualManpower")
	req.MaterialConsumed, _ = formValue(form, "materialConsumed")
	req.PreviousSubmissionID, _ = formValue(form, "previousSubmissionId")
	for _, p := range form.Value[formExistingPhotos] {
		if p = strings.TrimSpace(p); p != "" {
			req.ExistingPhotos = append(req.ExistingPhotos, p)
		}
	}

	var details []FieldError
	if fe := formDecimal(form, "quantity", &req.Quantity); fe != nil {
		details = append(details, *fe)
	}
	if fe := formInt(form, "previousVersion", &req.PreviousVersion); fe != nil {
		details = append(details, *fe)
	}
	return details
}

func readResubmitForm(form *multipart.Form, req *resubmitReq) []FieldError {
	req.SupervisorID, _ = formValue(form, "supervisorId")
	if v, ok := formValue(form, "actualManpower"); ok {
		req.ActualManpower = &v
	}
	if v, ok := formValue(form, "materialConsumed"); ok {
		req.MaterialConsumed = &v
	}

	var details []FieldError
	if fe := formDecimal(form, "quantity", &req.Quantity); fe != nil {
		details = append(details, *fe)
	}
	if fe := formInt(form, "version", &req.Version); fe != nil {
		details = append(details, *fe)
	}
	return details
}

// openUploads opens every "photos" part; done closes them.
func openUploads(form *multipart.Form) ([]photo.Upload, func(), error) {
	files := form.File[formPhotos]
	closers := make([]io.Closer, 0, len(files))
	done := func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}
	out := make([]photo.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			done()
			return nil, func() {}, err
		}
		closers = append(closers, f)
		out = append(out, photo.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return out, done, nil
}
