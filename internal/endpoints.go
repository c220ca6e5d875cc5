package internal

import (
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"golang.org/x/net/context"

	"github.com/derWhity/eventcal/internal/models"
)

// EventEndpoints is a collection of endpoints for working with the event service
type EventEndpoints struct {
	Search  endpoint.Endpoint
	Get     endpoint.Endpoint
	Create  endpoint.Endpoint
	Update  endpoint.Endpoint
	Delete  endpoint.Endpoint
	SetTags endpoint.Endpoint
}

// VenueEndpoints is a collection of endpoints for working with the venue service
type VenueEndpoints struct {
	List   endpoint.Endpoint
	Get    endpoint.Endpoint
	Create endpoint.Endpoint
	Update endpoint.Endpoint
	Delete endpoint.Endpoint
}

// SessionEndpoints is a collection of endpoints for working with the session service
type SessionEndpoints struct {
	Login  endpoint.Endpoint
	Logout endpoint.Endpoint
	WhoAmI endpoint.Endpoint
}

// The base for all responses which always contains an "ok" property to show if the call was successful and a
// data element containing the result of the request
type basicResponse struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data,omitempty"`
}

type pagingResponse struct {
	Rows uint        `json:"rows"`
	List interface{} `json:"list"`
}

// A request made when logging in
type loginRequest struct {
	User string `json:"user"`
	Pass string `json:"password"`
}

// -- Events -----------------------------------------------------------------------------------------------------------

// MakeEventEndpoints builds the endpoints needed to communicate with the Event Service
func MakeEventEndpoints(s EventService) EventEndpoints {
	return EventEndpoints{
		Search:  makeSearchEventsEndpoint(s),
		Get:     makeGetEventEndpoint(s),
		Create:  EnsureUserLoggedIn(makeCreateEventEndpoint(s)),
		Update:  EnsureUserLoggedIn(makeUpdateEventEndpoint(s)),
		Delete:  EnsureUserLoggedIn(makeDeleteEventEndpoint(s)),
		SetTags: EnsureUserLoggedIn(makeSetEventTagsEndpoint(s)),
	}
}

func makeSearchEventsEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(SearchRequest)
		if !ok {
			return nil, fmt.Errorf("illegal search request")
		}
		list, err := s.Search(ctx, req)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, list}, nil
	}
}

func makeGetEventEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(uint)
		if !ok {
			return nil, fmt.Errorf("illegal event ID")
		}
		ev, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, ev}, nil
	}
}

func makeCreateEventEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		event, ok := request.(models.Event)
		if !ok {
			return nil, fmt.Errorf("illegal event data")
		}
		ev, err := s.Create(ctx, &event)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, ev}, nil
	}
}

func makeUpdateEventEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		event, ok := request.(models.Event)
		if !ok {
			return nil, fmt.Errorf("illegal event data")
		}
		ev, err := s.Update(ctx, &event)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, ev}, nil
	}
}

func makeDeleteEventEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(uint)
		if !ok {
			return nil, fmt.Errorf("illegal event ID")
		}
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

func makeSetEventTagsEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(tagsRequest)
		if !ok {
			return nil, fmt.Errorf("illegal tag request")
		}
		ev, err := s.SetTags(ctx, req.EventID, req.Tags)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, ev}, nil
	}
}

// -- Venues -----------------------------------------------------------------------------------------------------------

// MakeVenueEndpoints builds the endpoints needed to communicate with the Venue Service
func MakeVenueEndpoints(s VenueService) VenueEndpoints {
	return VenueEndpoints{
		List:   makeListVenuesEndpoint(s),
		Get:    makeGetVenueEndpoint(s),
		Create: EnsureUserLoggedIn(makeCreateVenueEndpoint(s)),
		Update: EnsureUserLoggedIn(makeUpdateVenueEndpoint(s)),
		Delete: EnsureUserLoggedIn(makeDeleteVenueEndpoint(s)),
	}
}

func makeListVenuesEndpoint(s VenueService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		search, ok := request.(Search)
		if !ok {
			return nil, fmt.Errorf("illegal search request")
		}
		list, numRows, err := s.List(ctx, &search)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, pagingResponse{numRows, list}}, nil
	}
}

func makeGetVenueEndpoint(s VenueService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(uint)
		if !ok {
			return nil, fmt.Errorf("illegal venue ID")
		}
		v, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, v}, nil
	}
}

func makeCreateVenueEndpoint(s VenueService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		venue, ok := request.(models.Venue)
		if !ok {
			return nil, fmt.Errorf("illegal venue data")
		}
		v, err := s.Create(ctx, &venue)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, v}, nil
	}
}

func makeUpdateVenueEndpoint(s VenueService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		venue, ok := request.(models.Venue)
		if !ok {
			return nil, fmt.Errorf("illegal venue data")
		}
		v, err := s.Update(ctx, &venue)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, v}, nil
	}
}

func makeDeleteVenueEndpoint(s VenueService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(uint)
		if !ok {
			return nil, fmt.Errorf("illegal venue ID")
		}
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

// -- Sessions ---------------------------------------------------------------------------------------------------------

// MakeSessionEndpoints builds the endpoints needed to communicate with the Session Service
func MakeSessionEndpoints(s SessionService) SessionEndpoints {
	return SessionEndpoints{
		Login:  makeLoginEndpoint(s),
		Logout: makeLogoutEndpoint(s),
		WhoAmI: makeWhoAmIEndpoint(s),
	}
}

func makeLoginEndpoint(s SessionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		se, ok := request.(loginRequest)
		if !ok {
			return nil, fmt.Errorf("illegal login request")
		}
		si, err := s.Login(ctx, se.User, se.Pass)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, si}, nil
	}
}

func makeLogoutEndpoint(s SessionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("illegal session token")
		}
		if err := s.Logout(ctx, id); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

func makeWhoAmIEndpoint(s SessionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("illegal session token")
		}
		si, err := s.WhoAmI(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, si}, nil
	}
}
