package flights_service_api

import (
	"context"

	"github.com/Domenick1991/airfare/internal/api/rpcjson"
	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/Domenick1991/airfare/internal/service/flights"
	"google.golang.org/grpc"
)

const ServiceName = "airfare.flights.v1.FlightsService"

type ListFlightsRequest struct{}

type ListFlightsResponse struct {
	Flights []domain.Flight `json:"flights"`
}

type FlightRequest struct {
	ID int64 `json:"id"`
}

type FlightsServer interface {
	ListFlights(ctx context.Context, req *ListFlightsRequest) (*ListFlightsResponse, error)
	GetFlight(ctx context.Context, req *FlightRequest) (*domain.Flight, error)
	Quote(ctx context.Context, req *FlightRequest) (*flights.QuoteResult, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FlightsServer)(nil),
	Methods: []grpc.MethodDesc{
		rpcjson.Method(ServiceName, "ListFlights", FlightsServer.ListFlights),
		rpcjson.Method(ServiceName, "GetFlight", FlightsServer.GetFlight),
		rpcjson.Method(ServiceName, "Quote", FlightsServer.Quote),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "airfare/flights/v1",
}

func RegisterFlightsServer(s grpc.ServiceRegistrar, srv FlightsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Server exposes the read side of flights over gRPC.
type Server struct {
	flights flights.FlightUseCase
}

func NewServer(flights flights.FlightUseCase) *Server {
	return &Server{flights: flights}
}

func (s *Server) ListFlights(ctx context.Context, _ *ListFlightsRequest) (*ListFlightsResponse, error) {
	list, err := s.flights.List(ctx)
	if err != nil {
		return nil, rpcjson.Status(err)
	}
	if list == nil {
		list = []domain.Flight{}
	}
	return &ListFlightsResponse{Flights: list}, nil
}

func (s *Server) GetFlight(ctx context.Context, req *FlightRequest) (*domain.Flight, error) {
	flight, err := s.flights.GetByID(ctx, req.ID)
	if err != nil {
		return nil, rpcjson.Status(err)
	}
	return flight, nil
}

func (s *Server) Quote(ctx context.Context, req *FlightRequest) (*flights.QuoteResult, error) {
	q, err := s.flights.Quote(ctx, req.ID)
	if err != nil {
		return nil, rpcjson.Status(err)
	}
	return q, nil
}

var _ FlightsServer = (*Server)(nil)
