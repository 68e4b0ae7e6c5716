package web

import (
	"context"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program/ticketing"
)

func (s *Server) initializeTicketingConfig(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	var body initializeTicketingConfigRequest
	if err := req.decode(&body); err != nil {
		return nil, badRequest(err)
	}

	record, err := s.ticketing.InitializeConfig(ctx, req.signer)
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["config"] = toTicketingConfigView(record)
	return res, nil
}

func (s *Server) initializeEvent(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	var body initializeEventRequest
	if err := req.decode(&body); err != nil {
		return nil, badRequest(err)
	}

	record, err := s.ticketing.InitializeEvent(ctx, &ticketing.InitializeEventArgs{
		Creator:     req.signer,
		Name:        body.Name,
		Symbol:      body.Symbol,
		Uri:         body.Uri,
		Description: body.Description,
	})
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["event"] = toEventView(record)
	return res, nil
}

func (s *Server) addDigitalAccess(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	var body addDigitalAccessRequest
	if err := req.decode(&body); err != nil {
		return nil, badRequest(err)
	}

	record, err := s.ticketing.AddDigitalAccess(ctx, &ticketing.AddDigitalAccessArgs{
		Creator:     req.signer,
		EventId:     body.EventId,
		Price:       body.Price,
		MaxSupply:   body.MaxSupply,
		Name:        body.Name,
		Symbol:      body.Symbol,
		Description: body.Description,
		Uri:         body.Uri,
	})
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["digital_access"] = toDigitalAccessView(record)
	return res, nil
}

func (s *Server) mintToken(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	var body mintTokenRequest
	if err := req.decode(&body); err != nil {
		return nil, badRequest(err)
	}

	destination, err := parseAccount("destination", body.Destination)
	if err != nil {
		return nil, err
	}

	record, err := s.ticketing.MintToken(ctx, &ticketing.MintTokenArgs{
		Authority:       req.signer,
		EventId:         body.EventId,
		DigitalAccessId: body.DigitalAccessId,
		Destination:     destination,
	})
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["ticket"] = toTicketView(record)
	return res, nil
}

func (s *Server) buyToken(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	var body buyTokenRequest
	if err := req.decode(&body); err != nil {
		return nil, badRequest(err)
	}

	eventCreator, err := parseAccount("event_creator", body.EventCreator)
	if err != nil {
		return nil, err
	}

	record, err := s.ticketing.BuyToken(ctx, &ticketing.BuyTokenArgs{
		Buyer:           req.signer,
		EventId:         body.EventId,
		DigitalAccessId: body.DigitalAccessId,
		EventCreator:    eventCreator,
	})
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["ticket"] = toTicketView(record)
	return res, nil
}

func (s *Server) updateTokenMetadata(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	var body updateTokenMetadataRequest
	if err := req.decode(&body); err != nil {
		return nil, badRequest(err)
	}

	record, err := s.ticketing.UpdateTokenMetadata(ctx, &ticketing.UpdateTokenMetadataArgs{
		Creator: req.signer,
		EventId: body.EventId,
		NftId:   body.NftId,
		Name:    body.Name,
		Symbol:  body.Symbol,
		Uri:     body.Uri,
	})
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["metadata"] = toMetadataView(record)
	return res, nil
}

func (s *Server) getTicketingConfig(ctx context.Context, _ *apiRequest) (GenericApiResponseBody, error) {
	record, err := s.ticketing.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["config"] = toTicketingConfigView(record)
	return res, nil
}

func (s *Server) getEvent(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	eventId, err := parseUintParam(req, "event_id", 64)
	if err != nil {
		return nil, err
	}

	record, err := s.ticketing.GetEvent(ctx, eventId)
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["event"] = toEventView(record)
	return res, nil
}

func (s *Server) getEventsByCreator(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	value, err := req.queryParam("creator")
	if err != nil {
		return nil, badRequest(err)
	}
	creator, err := parseAccount("creator", value)
	if err != nil {
		return nil, err
	}
	opts, err := pagingOptions(req)
	if err != nil {
		return nil, err
	}

	records, err := s.ticketing.GetEventsByCreator(ctx, creator, opts...)
	if err != nil {
		return nil, err
	}

	views := make([]*eventView, 0, len(records))
	for _, record := range records {
		views = append(views, toEventView(record))
	}

	res := NewGenericApiSuccessResponseBody()
	res["events"] = views
	if len(records) > 0 {
		setNextCursor(res, records[len(records)-1].Id)
	}
	return res, nil
}

func (s *Server) getDigitalAccessByEvent(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	eventId, err := parseUintParam(req, "event_id", 64)
	if err != nil {
		return nil, err
	}

	records, err := s.ticketing.GetDigitalAccessByEvent(ctx, eventId)
	if err != nil {
		return nil, err
	}

	views := make([]*digitalAccessView, 0, len(records))
	for _, record := range records {
		views = append(views, toDigitalAccessView(record))
	}

	res := NewGenericApiSuccessResponseBody()
	res["digital_access"] = views
	return res, nil
}

func (s *Server) getTicket(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	eventId, err := parseUintParam(req, "event_id", 64)
	if err != nil {
		return nil, err
	}
	nftId, err := parseUintParam(req, "nft_id", 64)
	if err != nil {
		return nil, err
	}

	record, err := s.ticketing.GetTicket(ctx, eventId, nftId)
	if err != nil {
		return nil, err
	}

	metadata, err := s.ticketing.GetTicketMetadata(ctx, eventId, nftId)
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["ticket"] = toTicketView(record)
	res["metadata"] = toMetadataView(metadata)
	return res, nil
}

func (s *Server) getTicketsByOwner(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	value, err := req.queryParam("owner")
	if err != nil {
		return nil, badRequest(err)
	}
	owner, err := parseAccount("owner", value)
	if err != nil {
		return nil, err
	}
	opts, err := pagingOptions(req)
	if err != nil {
		return nil, err
	}

	records, err := s.ticketing.GetTicketsByOwner(ctx, owner, opts...)
	if err != nil {
		return nil, err
	}

	views := make([]*ticketView, 0, len(records))
	for _, record := range records {
		views = append(views, toTicketView(record))
	}

	res := NewGenericApiSuccessResponseBody()
	res["tickets"] = views
	if len(records) > 0 {
		setNextCursor(res, records[len(records)-1].Id)
	}
	return res, nil
}
