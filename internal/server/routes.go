package server

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geoknoesis/structwsf/recordstore"
	"github.com/geoknoesis/structwsf/resultset"
)

// HeaderWarnings carries the number of warnings collected while serving a
// request.
const HeaderWarnings = "X-Resultset-Warnings"

func (s *Server) registerRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	s.echo.POST("/convert", s.convertHandler)
	s.echo.POST("/records", s.putRecordsHandler)
	s.echo.GET("/records", s.getRecordHandler)
	s.echo.GET("/datasets", s.listDatasetsHandler)
	s.echo.GET("/datasets/:dataset", s.getDatasetHandler)
}

// convertHandler decodes the body according to Content-Type and encodes it
// in the format negotiated from Accept.
func (s *Server) convertHandler(c echo.Context) error {
	store, warnings, err := s.decodeBody(c)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return s.respond(c, store, warnings)
}

func (s *Server) putRecordsHandler(c echo.Context) error {
	if s.records == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "record store not configured"})
	}
	store, warnings, err := s.decodeBody(c)
	if err != nil {
		return s.errorResponse(c, err)
	}
	n, err := s.records.Put(c.Request().Context(), store)
	if err != nil {
		s.logger.Error("Failed to store records", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	c.Response().Header().Set(HeaderWarnings, strconv.Itoa(len(warnings)))
	return c.JSON(http.StatusOK, map[string]int{"received": store.Len(), "stored": n})
}

func (s *Server) getRecordHandler(c echo.Context) error {
	if s.records == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "record store not configured"})
	}
	uri := c.QueryParam("uri")
	if uri == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "uri is required"})
	}
	rec, err := s.records.Get(c.Request().Context(), uri)
	if errors.Is(err, recordstore.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "record not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	store := resultset.NewStoreWithPrefixes(s.prefixes.Clone())
	store.Add(rec)
	return s.respond(c, store, nil)
}

func (s *Server) listDatasetsHandler(c echo.Context) error {
	if s.records == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "record store not configured"})
	}
	datasets, err := s.records.Datasets(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if datasets == nil {
		datasets = []string{}
	}
	return c.JSON(http.StatusOK, datasets)
}

func (s *Server) getDatasetHandler(c echo.Context) error {
	if s.records == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "record store not configured"})
	}
	dataset, err := url.PathUnescape(c.Param("dataset"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid dataset"})
	}
	store, err := s.records.Dataset(c.Request().Context(), dataset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if store.Len() == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "dataset not found"})
	}
	return s.respond(c, store, nil)
}

func (s *Server) decodeBody(c echo.Context) (*resultset.Store, resultset.Warnings, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	format, ok := resultset.ParseFormat(contentType)
	if !ok || !format.Decodable() {
		return nil, nil, &resultset.Error{
			Code:    resultset.ErrCodeUnsupportedFormat,
			Format:  resultset.Format(contentType),
			Message: "cannot read this content type",
			Err:     resultset.ErrUnsupportedFormat,
		}
	}
	return resultset.Decode(c.Request().Context(), c.Request().Body, format,
		resultset.WithPrefixes(s.prefixes),
		resultset.WithLogger(s.logger),
		resultset.WithMetrics(s.metrics),
	)
}

// respond encodes store in the negotiated format.
func (s *Server) respond(c echo.Context, store *resultset.Store, warnings resultset.Warnings) error {
	format, ok := resultset.Negotiate(c.Request().Header.Get(echo.HeaderAccept))
	if !ok {
		return c.JSON(http.StatusNotAcceptable, map[string]string{"error": "no supported format in Accept"})
	}
	var buf bytes.Buffer
	encodeWarnings, err := resultset.Encode(c.Request().Context(), &buf, store, format,
		resultset.WithLogger(s.logger),
		resultset.WithMetrics(s.metrics),
		resultset.WithTransformer(s.transformer),
	)
	if err != nil {
		return s.errorResponse(c, err)
	}
	warnings = append(warnings, encodeWarnings...)
	c.Response().Header().Set(HeaderWarnings, strconv.Itoa(len(warnings)))
	return c.Blob(http.StatusOK, string(format)+"; charset=utf-8", buf.Bytes())
}

func (s *Server) errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	code := resultset.Code(err)
	switch {
	case errors.Is(err, resultset.ErrNoTransformer):
		status = http.StatusNotImplemented
	case code == resultset.ErrCodeMalformedInput:
		status = http.StatusBadRequest
	case code == resultset.ErrCodeUnsupportedFormat:
		status = http.StatusUnsupportedMediaType
	case code == resultset.ErrCodeDelegatedTransform:
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	}
	return c.JSON(status, map[string]string{"error": err.Error(), "code": string(code)})
}
