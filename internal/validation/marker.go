package validation

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/zhenghongliu48-sys/mymap/internal/errs"
	"github.com/zhenghongliu48-sys/mymap/internal/models"
)

const (
	MsgMissingFields    = "missing required fields (name, lat, lng)"
	MsgNotNumbers       = "lat and lng must be numbers"
	MsgJSONBodyRequired = "JSON body required"
	MsgInvalidJSON      = "invalid JSON body"
)

// maxBodyBytes caps marker request bodies.
const maxBodyBytes = 1 << 20

// CreateMarkerRequest is the wire form of a new marker.
// Absent and null fields decode to nil.
type CreateMarkerRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Lat         *Numeric `json:"lat"`
	Lng         *Numeric `json:"lng"`
}

// UpdateMarkerRequest is the wire form of a partial marker update.
// Absent keys and null name or coordinates leave the stored value alone;
// an explicit null description clears it.
type UpdateMarkerRequest struct {
	Name        *string        `json:"name"`
	Description NullableString `json:"description,omitzero"`
	Lat         *Numeric       `json:"lat"`
	Lng         *Numeric       `json:"lng"`
}

// Input checks presence and number formats and returns the typed value.
func (r *CreateMarkerRequest) Input() (models.MarkerInput, error) {
	var missing []errs.FieldError
	if r.Name == nil || *r.Name == "" {
		missing = append(missing, errs.FieldError{Field: "name", Error: "is required"})
	}
	if r.Lat == nil {
		missing = append(missing, errs.FieldError{Field: "lat", Error: "is required"})
	}
	if r.Lng == nil {
		missing = append(missing, errs.FieldError{Field: "lng", Error: "is required"})
	}
	if len(missing) > 0 {
		return models.MarkerInput{}, errs.Invalid(MsgMissingFields, missing...)
	}

	lat, latErr := coordinate("lat", r.Lat)
	lng, lngErr := coordinate("lng", r.Lng)
	if fields := collect(latErr, lngErr); len(fields) > 0 {
		return models.MarkerInput{}, errs.Invalid(MsgNotNumbers, fields...)
	}

	return models.MarkerInput{
		Name:        *r.Name,
		Description: r.Description,
		Lat:         lat,
		Lng:         lng,
	}, nil
}

// Patch checks number formats and returns the typed patch.
// A request that names no field is rejected.
func (r *UpdateMarkerRequest) Patch() (models.MarkerPatch, error) {
	patch := models.MarkerPatch{Name: r.Name}
	if r.Description.Set {
		if r.Description.Value == nil {
			patch.ClearDescription = true
		} else {
			patch.Description = r.Description.Value
		}
	}

	var fields []errs.FieldError
	if r.Lat != nil {
		lat, fe := coordinate("lat", r.Lat)
		fields = collect(fe)
		patch.Lat = &lat
	}
	if r.Lng != nil {
		lng, fe := coordinate("lng", r.Lng)
		fields = append(fields, collect(fe)...)
		patch.Lng = &lng
	}
	if len(fields) > 0 {
		return models.MarkerPatch{}, errs.Invalid(MsgNotNumbers, fields...)
	}

	if patch.Empty() {
		return models.MarkerPatch{}, errs.Invalid(MsgJSONBodyRequired)
	}
	return patch, nil
}

func coordinate(field string, n *Numeric) (float64, *errs.FieldError) {
	f, ok := n.Float()
	if !ok {
		return 0, &errs.FieldError{Field: field, Error: "must be a number"}
	}
	return f, nil
}

func collect(fes ...*errs.FieldError) []errs.FieldError {
	var out []errs.FieldError
	for _, fe := range fes {
		if fe != nil {
			out = append(out, *fe)
		}
	}
	return out
}

// DecodeCreate reads a marker creation request from a JSON or form body.
func DecodeCreate(r *http.Request) (models.MarkerInput, error) {
	var req CreateMarkerRequest

	if isJSON(r) {
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			return models.MarkerInput{}, errs.Invalid(MsgInvalidJSON)
		}
		return req.Input()
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return models.MarkerInput{}, errs.Invalid(MsgMissingFields)
	}
	req.Name = formValue(r.PostForm, "name")
	req.Description = formValue(r.PostForm, "description")
	if v := formValue(r.PostForm, "lat"); v != nil {
		n := ParseNumeric(*v)
		req.Lat = &n
	}
	if v := formValue(r.PostForm, "lng"); v != nil {
		n := ParseNumeric(*v)
		req.Lng = &n
	}
	return req.Input()
}

// UpdateBody is a decoded update request. A body that could not be read
// is held in Err and reported by Patch, so callers can first confirm the
// marker exists and may be edited.
type UpdateBody struct {
	Request UpdateMarkerRequest
	Err     error
}

// Patch returns the decode error, if any, or the typed patch.
func (b UpdateBody) Patch() (models.MarkerPatch, error) {
	if b.Err != nil {
		return models.MarkerPatch{}, b.Err
	}
	return b.Request.Patch()
}

// DecodeUpdate reads a partial marker update. Only JSON bodies are accepted.
func DecodeUpdate(r *http.Request) UpdateBody {
	if !isJSON(r) {
		return UpdateBody{Err: errs.Invalid(MsgJSONBodyRequired)}
	}

	var body UpdateBody
	if err := decodeJSON(r, &body.Request); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			body.Err = errs.Invalid(MsgJSONBodyRequired)
		case errors.As(err, &typeErr) && typeErr.Field == "":
			body.Err = errs.Invalid(MsgJSONBodyRequired)
		default:
			body.Err = errs.Invalid(MsgInvalidJSON)
		}
	}
	return body
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

// formValue returns nil when the key is absent from the form.
func formValue(form url.Values, key string) *string {
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
