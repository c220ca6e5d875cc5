package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/eventcal/internal/ctxhelper"
	"github.com/derWhity/eventcal/internal/log"
	"github.com/derWhity/eventcal/internal/models"
)

const (
	apiBasePath = "/api"
)

// Defines an error that defines the HTTP status that should be returned
type httpStatuser interface {
	Status() int
}

// Defines an error that returns a machine-readable error code
type errorCoder interface {
	ErrorCode() string
}

// Defines an error that contains a data field with additional information
type dataBearer interface {
	Data() interface{}
}

type errorResponse struct {
	basicResponse
	// The error code
	Error   string      `json:"error"`
	Message string      `json:"errorMessage"`
	Details interface{} `json:"errorDetails,omitempty"`
}

// MakeHTTPHandler creates the main HTTP handler for the event calendar service. Metrics collected in the given
// gatherer are exposed at /metrics
func MakeHTTPHandler(
	es EventService,
	vs VenueService,
	sServ SessionService,
	metrics prometheus.Gatherer,
	logger *logrus.Entry,
) http.Handler {
	r := mux.NewRouter()

	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(encodeError),
		httptransport.ServerBefore(makeContextInjector(logger)),
		httptransport.ServerBefore(makeSessionDecoder(sServ)),
	}

	// -- Event service --------------------------------
	{
		evEp := MakeEventEndpoints(es)

		// Search
		r.Methods(http.MethodGet).Path(apiBasePath + "/events/search").Handler(httptransport.NewServer(
			evEp.Search,
			decodeEventSearchRequest,
			encodeJSONResponse,
			options...,
		))

		// Get (Read)
		r.Methods(http.MethodGet).Path(apiBasePath + "/events/{id:[0-9]+}").Handler(httptransport.NewServer(
			evEp.Get,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// Create
		r.Methods(http.MethodPost).Path(apiBasePath + "/events").Handler(httptransport.NewServer(
			evEp.Create,
			decodeEvent,
			encodeJSONResponse,
			options...,
		))

		// Update
		r.Methods(http.MethodPut).Path(apiBasePath + "/events/{id:[0-9]+}").Handler(httptransport.NewServer(
			evEp.Update,
			decodeEventUpdate,
			encodeJSONResponse,
			options...,
		))

		// Delete
		r.Methods(http.MethodDelete).Path(apiBasePath + "/events/{id:[0-9]+}").Handler(httptransport.NewServer(
			evEp.Delete,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// SetTags
		r.Methods(http.MethodPut).Path(apiBasePath + "/events/{id:[0-9]+}/tags").Handler(httptransport.NewServer(
			evEp.SetTags,
			decodeTagsRequest,
			encodeJSONResponse,
			options...,
		))
	}

	// -- Venue service --------------------------------
	{
		vEp := MakeVenueEndpoints(vs)

		// List
		r.Methods(http.MethodGet).Path(apiBasePath + "/venues").Handler(httptransport.NewServer(
			vEp.List,
			decodeSearchRequest,
			encodeJSONResponse,
			options...,
		))

		// Get (Read)
		r.Methods(http.MethodGet).Path(apiBasePath + "/venues/{id:[0-9]+}").Handler(httptransport.NewServer(
			vEp.Get,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// Create
		r.Methods(http.MethodPost).Path(apiBasePath + "/venues").Handler(httptransport.NewServer(
			vEp.Create,
			decodeVenue,
			encodeJSONResponse,
			options...,
		))

		// Update
		r.Methods(http.MethodPut).Path(apiBasePath + "/venues/{id:[0-9]+}").Handler(httptransport.NewServer(
			vEp.Update,
			decodeVenueUpdate,
			encodeJSONResponse,
			options...,
		))

		// Delete
		r.Methods(http.MethodDelete).Path(apiBasePath + "/venues/{id:[0-9]+}").Handler(httptransport.NewServer(
			vEp.Delete,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))
	}

	// -- Session Service ------------------------------
	{
		sEp := MakeSessionEndpoints(sServ)

		// Login
		r.Methods(http.MethodPost).Path(apiBasePath + "/login").Handler(httptransport.NewServer(
			sEp.Login,
			decodeLoginRequest,
			encodeJSONResponse,
			options...,
		))

		// Logout
		r.Methods(http.MethodPost).Path(apiBasePath + "/logout").Handler(httptransport.NewServer(
			sEp.Logout,
			decodeToken,
			encodeJSONResponse,
			options...,
		))

		// WhoAmI
		r.Methods(http.MethodGet).Path(apiBasePath + "/whoami").Handler(httptransport.NewServer(
			sEp.WhoAmI,
			decodeToken,
			encodeJSONResponse,
			options...,
		))
	}

	// Simple alive answer for checking if HTTP can be reached
	r.Methods(http.MethodGet).Path("/alive").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		data := map[string]bool{"ok": true}
		json.NewEncoder(w).Encode(data)
	})

	r.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.HandlerFor(metrics, promhttp.HandlerOpts{}))

	return r
}

// decodeLoginRequest decodes a login request from the JSON body
func decodeLoginRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req loginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return nil, err
	}
	return req, nil
}

// decodeToken gets the token from the call's context
func decodeToken(ctx context.Context, r *http.Request) (request interface{}, err error) {
	session := ctxhelper.Session(ctx)
	if session == nil {
		return nil, MakeError(
			http.StatusBadRequest,
			ErrCodeNotLoggedIn,
			"You need an active session for this operation",
		)
	}
	return session.ID, nil
}

// decodePaginationRequest reads the pagination information from the request's query variables
func decodePaginationRequest(_ context.Context, r *http.Request) (request interface{}, err error) {
	val := r.URL.Query()
	pag := Pagination{
		Limit: models.DefaultSearchLimit,
	}
	if i, err := strconv.ParseUint(val.Get("offset"), 10, 64); err == nil {
		pag.Offset = uint(i)
	}
	if i, err := strconv.ParseUint(val.Get("limit"), 10, 64); err == nil {
		pag.Limit = uint(i)
	}
	return pag, nil
}

// decodeSearchRequest decodes the parameters of a search by checking the GET variables "search", "limit" and "offset"
func decodeSearchRequest(ctx context.Context, r *http.Request) (request interface{}, err error) {
	val := r.URL.Query()
	pag, _ := decodePaginationRequest(ctx, r)
	search := Search{
		Search:     val.Get("search"),
		Pagination: pag.(Pagination),
	}
	return search, nil
}

// decodeEventSearchRequest decodes an event search from the GET variables "q", "order", "limit" and "skip_old".
// Other than the lenient paging parameters, malformed values are rejected
func decodeEventSearchRequest(_ context.Context, r *http.Request) (interface{}, error) {
	val := r.URL.Query()
	req := SearchRequest{
		Query: val.Get("q"),
		SearchOptions: models.SearchOptions{
			Order: models.ParseSortOrder(val.Get("order")),
		},
	}
	if str := strings.TrimSpace(val.Get("limit")); str != "" {
		limit, err := strconv.Atoi(str)
		if err != nil || limit <= 0 {
			return nil, MakeErrorWithData(
				http.StatusBadRequest,
				ErrCodeIllegalValue,
				fmt.Sprintf("Value '%s' for 'limit' is no positive integer", str),
				fieldData("limit"),
			)
		}
		req.Limit = limit
	}
	if str := strings.TrimSpace(val.Get("skip_old")); str != "" {
		skip, err := strconv.ParseBool(str)
		if err != nil {
			return nil, MakeErrorWithData(
				http.StatusBadRequest,
				ErrCodeIllegalValue,
				fmt.Sprintf("Value '%s' for 'skip_old' is no boolean", str),
				fieldData("skip_old"),
			)
		}
		req.SkipOld = skip
	}
	return req, nil
}

// decodeJSONBody decodes the request's JSON body into the given target
func decodeJSONBody(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalJSON,
			fmt.Sprintf("Failed to decode JSON body: %v", err),
		)
	}
	return nil
}

// decodeEvent tries to load an event object from the provided HTTP request's body
func decodeEvent(_ context.Context, r *http.Request) (interface{}, error) {
	var ev models.Event
	if err := decodeJSONBody(r, &ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// decodeVenue tries to load a venue object from the provided HTTP request's body
func decodeVenue(_ context.Context, r *http.Request) (interface{}, error) {
	var v models.Venue
	if err := decodeJSONBody(r, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// getUintFromPath is a helper function that gets a uint from the given path variable
func getUintFromPath(varname string, r *http.Request) (uint, error) {
	errmsg := fmt.Sprintf("Value for '%s' is no valid unsigned integer", varname)
	vars := mux.Vars(r)
	str, ok := vars[varname]
	if !ok {
		return 0, MakeError(http.StatusBadRequest, ErrCodeInvalidUint, errmsg)
	}
	id, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, MakeError(http.StatusBadRequest, ErrCodeInvalidUint, errmsg)
	}
	return uint(id), nil
}

// Decodes an ID from the "id" path variable provided by GoRilla
func decodeIDFromPath(ctx context.Context, r *http.Request) (interface{}, error) {
	return getUintFromPath("id", r)
}

// Decodes an event from an update request where the ID of the event is in the path
func decodeEventUpdate(ctx context.Context, r *http.Request) (interface{}, error) {
	ev, err := decodeEvent(ctx, r)
	if err != nil {
		return nil, err
	}
	id, err := getUintFromPath("id", r)
	if err != nil {
		return nil, err
	}
	ret := ev.(models.Event)
	ret.ID = id
	return ret, nil
}

// Decodes a venue from an update request where the ID of the venue is in the path
func decodeVenueUpdate(ctx context.Context, r *http.Request) (interface{}, error) {
	v, err := decodeVenue(ctx, r)
	if err != nil {
		return nil, err
	}
	id, err := getUintFromPath("id", r)
	if err != nil {
		return nil, err
	}
	ret := v.(models.Venue)
	ret.ID = id
	return ret, nil
}

// Decodes the new tag list of an event. The event ID is taken from the path
func decodeTagsRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req tagsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return nil, err
	}
	id, err := getUintFromPath("id", r)
	if err != nil {
		return nil, err
	}
	req.EventID = id
	return req, nil
}

// Encodes a typical JSON response
func encodeJSONResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

// Builds an error response based on the incoming error
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	if err == nil {
		panic("encodeError with nil error")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if st, ok := err.(httpStatuser); ok {
		w.WriteHeader(st.Status())
	} else {
		w.WriteHeader(http.StatusInternalServerError)
	}
	ret := errorResponse{
		basicResponse: basicResponse{false, nil},
		Message:       err.Error(),
		Error:         ErrCodeUnknown,
	}
	if cd, ok := err.(errorCoder); ok {
		ret.Error = cd.ErrorCode()
	}
	if db, ok := err.(dataBearer); ok {
		if data := db.Data(); data != nil {
			if err, ok := data.(error); ok {
				ret.Details = err.Error()
			} else {
				ret.Details = data
			}
		}
	}
	json.NewEncoder(w).Encode(&ret)
}

// makeSessionDecoder returns a function that is used in every HTTP call to decode the session used, if a session
// token is sent by the client
func makeSessionDecoder(s SessionService) httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		token := strings.TrimSpace(r.Header.Get("token"))
		logger := ctxhelper.Logger(ctx)
		if token != "" {
			// Try to load the session's data
			sess, user, err := s.GetContents(ctx, token, true)
			if err != nil {
				logger.WithError(err).WithField(log.FldSession, token).Error("Failed to retrieve session information")
				return ctx
			}
			if sess == nil || user == nil {
				// Nobody logged in
				return ctx
			}
			ctx = context.WithValue(ctx, ctxhelper.KeySession, *sess)
			ctx = context.WithValue(ctx, ctxhelper.KeyUser, *user)
			ctx = ctxhelper.WithLogger(ctx, logger.WithFields(logrus.Fields{
				log.FldSession: sess.ID,
				log.FldUser:    user.ID,
			}))
		}
		return ctx
	}
}

func makeContextInjector(logger *logrus.Entry) httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		return ctxhelper.WithLogger(ctx, logger.WithField(log.FldPath, r.URL.Path))
	}
}
