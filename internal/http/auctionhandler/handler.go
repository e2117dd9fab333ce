package auctionhandler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"auctionhub/internal/models"
	"auctionhub/internal/repository"
	"auctionhub/internal/services/auction"
	"auctionhub/internal/services/bidding"
	"auctionhub/internal/services/evaluation"
)

type Handler struct {
	auctions    auction.IAuctionService
	engagement  auction.IEngagementService
	bids        bidding.IBidService
	evaluations evaluation.IEvaluationService
}

func New(
	auctions auction.IAuctionService,
	engagement auction.IEngagementService,
	bids bidding.IBidService,
	evaluations evaluation.IEvaluationService,
) *Handler {
	return &Handler{
		auctions:    auctions,
		engagement:  engagement,
		bids:        bids,
		evaluations: evaluations,
	}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/auctions", h.create)
	r.GET("/auctions", h.list)
	r.GET("/auctions/:id", h.info)
	r.PUT("/auctions/:id", h.update)
	r.POST("/auctions/:id/publish", h.publish)
	r.POST("/auctions/:id/cancel", h.cancel)
	r.POST("/auctions/:id/close", h.close)
	r.POST("/auctions/:id/extend", h.extend)

	r.POST("/auctions/:id/bids", h.bid)
	r.GET("/auctions/:id/bids", h.bidHistory)
	r.GET("/auctions/:id/leader", h.leader)
	r.POST("/bids/:id/retract", h.retract)

	r.POST("/bids/:id/evaluations", h.evaluate)
	r.GET("/bids/:id/evaluations", h.listEvaluations)

	r.GET("/auctions/:id/extensions", h.extensions)
	r.POST("/auctions/:id/watch", h.watch)
	r.DELETE("/auctions/:id/watch/:userId", h.unwatch)
	r.POST("/auctions/:id/questions", h.ask)
	r.GET("/auctions/:id/questions", h.questions)
	r.POST("/questions/:id/answer", h.answer)
	r.GET("/auctions/:id/activities", h.activities)
}

// statusFor maps a service error onto the HTTP status the client sees.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auction.ErrValidation),
		errors.Is(err, bidding.ErrInvalidAmount),
		errors.Is(err, bidding.ErrBidTooLow),
		errors.Is(err, bidding.ErrBidTooHigh),
		errors.Is(err, bidding.ErrBelowReserve),
		errors.Is(err, evaluation.ErrMissingCriteria),
		errors.Is(err, evaluation.ErrScoreOutOfRange),
		errors.Is(err, auction.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, bidding.ErrOwnAuction),
		errors.Is(err, bidding.ErrNotInvited):
		return http.StatusForbidden
	case errors.Is(err, auction.ErrInvalidTransition),
		errors.Is(err, auction.ErrNoEligibleBids),
		errors.Is(err, auction.ErrCloseInProgress),
		errors.Is(err, bidding.ErrAuctionNotActive),
		errors.Is(err, bidding.ErrAuctionFull),
		errors.Is(err, bidding.ErrBidRetracted),
		errors.Is(err, bidding.ErrRetractionClose),
		errors.Is(err, bidding.ErrConflict),
		errors.Is(err, evaluation.ErrNotEvaluable),
		errors.Is(err, repository.ErrDuplicateEvaluation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func toCommand(body *CreateAuctionBody) auction.CreateAuctionCommand {
	cmd := auction.CreateAuctionCommand{
		VendorID:             uuid.MustParse(body.VendorID),
		Title:                body.Title,
		Description:          body.Description,
		AuctionType:          models.AuctionType(body.AuctionType),
		SealedBidMode:        models.SealedBidMode(body.SealedBidMode),
		StartingPrice:        body.StartingPrice,
		MinBidIncrement:      body.MinBidIncrement,
		Currency:             body.Currency,
		StartDate:            body.StartDate.UTC(),
		EndDate:              body.EndDate.UTC(),
		ServiceRequirements:  body.ServiceRequirements,
		EvaluationCriteria:   body.EvaluationCriteria,
		Terms:                body.Terms,
		AllowAutoBidding:     body.AllowAutoBidding,
		IsPrivate:            body.IsPrivate,
		MaxParticipants:      body.MaxParticipants,
		HasAutoExtension:     body.HasAutoExtension,
		AutoExtensionMinutes: body.AutoExtensionMinutes,
	}
	if body.ReservePrice != nil {
		cmd.ReservePrice = decimal.NullDecimal{Decimal: *body.ReservePrice, Valid: true}
	}
	if body.BuyNowPrice != nil {
		cmd.BuyNowPrice = decimal.NullDecimal{Decimal: *body.BuyNowPrice, Valid: true}
	}
	for _, v := range body.InvitedVendors {
		cmd.InvitedVendors = append(cmd.InvitedVendors, uuid.MustParse(v))
	}
	return cmd
}

// @Summary		Create an auction
// @Description	Creates a draft auction owned by the vendor.
// @Tags			Auctions
// @Param			body	body		CreateAuctionBody	true	"Auction payload"
// @Success		201		{object}	AuctionDTO
// @Failure		400		{object}	ErrorResponse
// @Router			/auctions [post]
func (h *Handler) create(c *gin.Context) {
	var body CreateAuctionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	a, err := h.auctions.CreateAuction(c.Request.Context(), toCommand(&body))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAuctionDTO(a))
}

// @Summary		List auctions
// @Description	Paginated auction listing with status, type and vendor filters.
// @Tags			Auctions
// @Param			status	query		string	false	"Status filter"
// @Param			limit	query		int		false	"Max results (0-100)"	default(10)
// @Param			offset	query		int		false	"Offset"				default(0)
// @Success		200		{array}		AuctionDTO
// @Failure		400		{object}	ErrorResponse
// @Router			/auctions [get]
func (h *Handler) list(c *gin.Context) {
	var q ListAuctionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	f := repository.ListAuctionsFilter{
		Status:      models.AuctionStatus(q.Status),
		AuctionType: models.AuctionType(q.AuctionType),
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	if q.VendorID != "" {
		f.VendorID = uuid.NullUUID{UUID: uuid.MustParse(q.VendorID), Valid: true}
	}
	out, err := h.auctions.ListAuctions(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	dtos := make([]AuctionDTO, 0, len(out))
	for i := range out {
		dtos = append(dtos, toAuctionDTO(&out[i]))
	}
	c.JSON(http.StatusOK, dtos)
}

// @Summary		Get auction details
// @Tags			Auctions
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{object}	AuctionDTO
// @Failure		404	{object}	ErrorResponse
// @Router			/auctions/{id} [get]
func (h *Handler) info(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.auctions.GetAuction(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuctionDTO(a))
}

// @Summary		Update a draft auction
// @Tags			Auctions
// @Param			id		path		string				true	"Auction ID"
// @Param			body	body		CreateAuctionBody	true	"Auction payload"
// @Success		200		{object}	AuctionDTO
// @Failure		409		{object}	ErrorResponse
// @Router			/auctions/{id} [put]
func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body CreateAuctionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	a, err := h.auctions.UpdateAuction(c.Request.Context(), id, toCommand(&body))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuctionDTO(a))
}

// @Summary		Publish an auction
// @Description	Moves a draft to scheduled or straight to active.
// @Tags			Auctions
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{object}	AuctionDTO
// @Failure		409	{object}	ErrorResponse
// @Router			/auctions/{id}/publish [post]
func (h *Handler) publish(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.auctions.PublishAuction(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuctionDTO(a))
}

// @Summary		Cancel an auction
// @Tags			Auctions
// @Param			id		path	string				true	"Auction ID"
// @Param			body	body	CancelAuctionBody	true	"Cancellation payload"
// @Success		202
// @Failure		409	{object}	ErrorResponse
// @Router			/auctions/{id}/cancel [post]
func (h *Handler) cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body CancelAuctionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.auctions.CancelAuction(c.Request.Context(), id, uuid.MustParse(body.ActorID), body.Reason); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// @Summary		Close an auction
// @Description	Ends bidding and resolves the award.
// @Tags			Auctions
// @Param			id		path	string				true	"Auction ID"
// @Param			body	body	CloseAuctionBody	false	"Close payload"
// @Success		200
// @Failure		409	{object}	ErrorResponse
// @Router			/auctions/{id}/close [post]
func (h *Handler) close(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body CloseAuctionBody
	// the body is optional, but a present body must still bind cleanly
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	actor := uuid.Nil
	if body.ActorID != "" {
		actor = uuid.MustParse(body.ActorID)
	}
	winner, err := h.auctions.CloseAuction(c.Request.Context(), id, actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winner_id": winner.String()})
}

// @Summary		Extend an auction
// @Description	Pushes the end date of an active auction out by the given minutes.
// @Tags			Auctions
// @Param			id		path		string				true	"Auction ID"
// @Param			body	body		ExtendAuctionBody	true	"Extension payload"
// @Success		200		{object}	AuctionDTO
// @Failure		400		{object}	ErrorResponse
// @Failure		409		{object}	ErrorResponse
// @Router			/auctions/{id}/extend [post]
func (h *Handler) extend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body ExtendAuctionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	a, err := h.auctions.ExtendAuction(c.Request.Context(), id, uuid.MustParse(body.ActorID), body.Minutes, body.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuctionDTO(a))
}

// @Summary		Place a bid
// @Tags			Bids
// @Param			id		path		string			true	"Auction ID"
// @Param			body	body		PlaceBidBody	true	"Bid payload"
// @Success		201		{object}	BidDTO
// @Failure		400		{object}	ErrorResponse
// @Failure		409		{object}	ErrorResponse
// @Router			/auctions/{id}/bids [post]
func (h *Handler) bid(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body PlaceBidBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	cmd := bidding.SubmitBidCommand{
		AuctionID:        id,
		BidderID:         uuid.MustParse(body.BidderID),
		Amount:           body.Amount,
		BidType:          models.BidType(body.BidType),
		Proposal:         body.Proposal,
		DeliveryTimeline: body.DeliveryTimeline,
		Qualifications:   body.Qualifications,
	}
	if cmd.BidType == "" {
		cmd.BidType = models.BidManual
	}
	if body.MaxAmount != nil {
		cmd.MaxAmount = decimal.NullDecimal{Decimal: *body.MaxAmount, Valid: true}
	}
	b, err := h.bids.SubmitBid(c.Request.Context(), cmd)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBidDTO(b, false))
}

// @Summary		Bid history
// @Description	Chronological bid list. Sealed auctions hide amounts until close.
// @Tags			Bids
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{array}		BidDTO
// @Failure		404	{object}	ErrorResponse
// @Router			/auctions/{id}/bids [get]
func (h *Handler) bidHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.auctions.GetAuction(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	bids, err := h.bids.History(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	mask := a.BidsSealed()
	dtos := make([]BidDTO, 0, len(bids))
	for i := range bids {
		dtos = append(dtos, toBidDTO(&bids[i], mask))
	}
	c.JSON(http.StatusOK, dtos)
}

// @Summary		Current leader
// @Description	Best standing bid. Sealed auctions return no leader before close.
// @Tags			Bids
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{object}	BidDTO
// @Failure		404	{object}	ErrorResponse
// @Router			/auctions/{id}/leader [get]
func (h *Handler) leader(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.bids.CurrentLeader(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if b == nil {
		c.JSON(http.StatusOK, gin.H{"leader": nil})
		return
	}
	c.JSON(http.StatusOK, toBidDTO(b, false))
}

// @Summary		Retract a bid
// @Tags			Bids
// @Param			id		path		string			true	"Bid ID"
// @Param			body	body		RetractBidBody	true	"Retraction payload"
// @Success		200		{object}	BidDTO
// @Failure		409		{object}	ErrorResponse
// @Router			/bids/{id}/retract [post]
func (h *Handler) retract(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body RetractBidBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	b, err := h.bids.RetractBid(c.Request.Context(), id, body.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toBidDTO(b, false))
}

// @Summary		Evaluate a bid
// @Tags			Evaluations
// @Param			id		path		string			true	"Bid ID"
// @Param			body	body		EvaluateBidBody	true	"Scores payload"
// @Success		201		{object}	EvaluationDTO
// @Failure		400		{object}	ErrorResponse
// @Failure		409		{object}	ErrorResponse
// @Router			/bids/{id}/evaluations [post]
func (h *Handler) evaluate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body EvaluateBidBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	ev, err := h.evaluations.EvaluateBid(c.Request.Context(), id, uuid.MustParse(body.EvaluatorID), evaluation.Scores{
		Price:      body.PriceScore,
		Quality:    body.QualityScore,
		Timeline:   body.TimelineScore,
		Experience: body.ExperienceScore,
		Comments:   body.Comments,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEvaluationDTO(ev))
}

// @Summary		List a bid's evaluations
// @Tags			Evaluations
// @Param			id	path		string	true	"Bid ID"
// @Success		200	{array}		EvaluationDTO
// @Router			/bids/{id}/evaluations [get]
func (h *Handler) listEvaluations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	evs, err := h.evaluations.ListByBid(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	dtos := make([]EvaluationDTO, 0, len(evs))
	for i := range evs {
		dtos = append(dtos, toEvaluationDTO(&evs[i]))
	}
	c.JSON(http.StatusOK, dtos)
}

// @Summary		Extension log
// @Tags			Auctions
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{array}		ExtensionDTO
// @Router			/auctions/{id}/extensions [get]
func (h *Handler) extensions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	exts, err := h.auctions.Extensions(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	dtos := make([]ExtensionDTO, 0, len(exts))
	for i := range exts {
		dtos = append(dtos, toExtensionDTO(&exts[i]))
	}
	c.JSON(http.StatusOK, dtos)
}

// @Summary		Watch an auction
// @Tags			Engagement
// @Param			id		path	string		true	"Auction ID"
// @Param			body	body	WatchBody	true	"Watch payload"
// @Success		204
// @Router			/auctions/{id}/watch [post]
func (h *Handler) watch(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body WatchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	err := h.engagement.WatchAuction(c.Request.Context(), id, uuid.MustParse(body.UserID), auction.WatchOptions{
		NotifyOnBid:       body.NotifyOnBid,
		NotifyOnEnd:       body.NotifyOnEnd,
		NotifyOnExtension: body.NotifyOnExtension,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Stop watching an auction
// @Tags			Engagement
// @Param			id		path	string	true	"Auction ID"
// @Param			userId	path	string	true	"User ID"
// @Success		204
// @Router			/auctions/{id}/watch/{userId} [delete]
func (h *Handler) unwatch(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.engagement.UnwatchAuction(c.Request.Context(), id, userID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Ask a question
// @Tags			Engagement
// @Param			id		path		string			true	"Auction ID"
// @Param			body	body		AskQuestionBody	true	"Question payload"
// @Success		201		{object}	QuestionDTO
// @Router			/auctions/{id}/questions [post]
func (h *Handler) ask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body AskQuestionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	isPublic := true
	if body.IsPublic != nil {
		isPublic = *body.IsPublic
	}
	q, err := h.engagement.AskQuestion(c.Request.Context(), id, uuid.MustParse(body.AskerID), body.Question, isPublic)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toQuestionDTO(q))
}

// @Summary		List questions
// @Tags			Engagement
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{array}		QuestionDTO
// @Router			/auctions/{id}/questions [get]
func (h *Handler) questions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	qs, err := h.engagement.ListQuestions(c.Request.Context(), id, c.Query("include_private") != "true")
	if err != nil {
		fail(c, err)
		return
	}
	dtos := make([]QuestionDTO, 0, len(qs))
	for i := range qs {
		dtos = append(dtos, toQuestionDTO(&qs[i]))
	}
	c.JSON(http.StatusOK, dtos)
}

// @Summary		Answer a question
// @Tags			Engagement
// @Param			id		path		string				true	"Question ID"
// @Param			body	body		AnswerQuestionBody	true	"Answer payload"
// @Success		200		{object}	QuestionDTO
// @Failure		404		{object}	ErrorResponse
// @Router			/questions/{id}/answer [post]
func (h *Handler) answer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body AnswerQuestionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	q, err := h.engagement.AnswerQuestion(c.Request.Context(), id, uuid.MustParse(body.AnsweredBy), body.Answer)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuestionDTO(q))
}

// @Summary		Activity feed
// @Tags			Engagement
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{array}		ActivityDTO
// @Router			/auctions/{id}/activities [get]
func (h *Handler) activities(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q ActivitiesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	acts, err := h.engagement.Activities(c.Request.Context(), id, q.Limit, q.Offset)
	if err != nil {
		fail(c, err)
		return
	}
	dtos := make([]ActivityDTO, 0, len(acts))
	for i := range acts {
		dtos = append(dtos, toActivityDTO(&acts[i]))
	}
	c.JSON(http.StatusOK, dtos)
}
