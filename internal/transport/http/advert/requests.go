package advert

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/light-bringer/advert-catalog/internal/app/advert/catalog"
	"github.com/light-bringer/advert-catalog/internal/app/advert/images"
	"github.com/light-bringer/advert-catalog/internal/pkg/apperr"
)

const (
	maxBodyBytes     = 10 << 20
	maxMemoryBytes   = 2 << 20
	imageField       = "image"
	tagsField        = "tags"
	multipartContent = "multipart/form-data"
)

var errMalformedBody = apperr.New(apperr.Validation, "malformed request body")

// advertFields is the editable part of an advert as it arrives on the wire.
type advertFields struct {
	Title       string
	Description string
	Price       string
	Category    string
	Tags        []string
	Image       *images.Upload
}

// jsonFields is the JSON body accepted by edit.
type jsonFields struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Category    string      `json:"category"`
	Tags        []string    `json:"tags"`
}

// parseFields reads a multipart form or, for edits, a JSON body.
func parseFields(w http.ResponseWriter, r *http.Request, allowJSON bool) (*advertFields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" && allowJSON {
		var body jsonFields
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, apperr.Wrap(apperr.Validation, errMalformedBody.Message, err)
		}
		return &advertFields{
			Title:       body.Title,
			Description: body.Description,
			Price:       body.Price.String(),
			Category:    body.Category,
			Tags:        body.Tags,
		}, nil
	}
	if mediaType != multipartContent {
		return nil, apperr.New(apperr.Validation, fmt.Sprintf("expected %s", multipartContent))
	}

	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		return nil, apperr.Wrap(apperr.Validation, errMalformedBody.Message, err)
	}
	form := url.Values(r.MultipartForm.Value)

	fields := &advertFields{
		Title:       form.Get("title"),
		Description: form.Get("description"),
		Price:       form.Get("price"),
		Category:    form.Get("category"),
	}
	if values, ok := form[tagsField]; ok {
		fields.Tags = splitTags(values)
	}

	file, header, err := r.FormFile(imageField)
	switch {
	case err == nil:
		fields.Image = &images.Upload{Filename: header.Filename, Size: header.Size, Body: file}
	case errors.Is(err, http.ErrMissingFile):
	default:
		return nil, apperr.Wrap(apperr.Validation, errMalformedBody.Message, err)
	}
	return fields, nil
}

// splitTags accepts repeated fields and comma-separated lists. The result is
// non-nil so an explicit empty field clears the tags.
func splitTags(values []string) []string {
	tags := make([]string, 0, len(values))
	for _, v := range values {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// listParams reads filters and pagination from the query string. Malformed
// numbers fall back to the defaults.
func listParams(r *http.Request) (catalog.RawFilter, int, int) {
	q := r.URL.Query()
	filter := catalog.RawFilter{
		Text:     q.Get("name"),
		Tags:     q.Get("tag"),
		MinPrice: q.Get("minPrice"),
		MaxPrice: q.Get("maxPrice"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	}
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return filter, page, limit
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxMemoryBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.Validation, errMalformedBody.Message, err)
	}
	return nil
}
