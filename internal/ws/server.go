package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"auctionhub/internal/services/auction"
	"auctionhub/internal/services/bidding"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 20 * time.Second // must be < pongWait
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ConnContext carries per-connection identity into event handlers.
type ConnContext struct {
	AuctionID uuid.UUID
	UserID    uuid.UUID
	Server    *WsServer
}

type WsServer struct {
	hub        *Hub
	subMgr     *subscriptionManager
	router     *Router
	rdc        *redis.Client
	auctionSvc auction.IAuctionService
	bidSvc     bidding.IBidService
}

func NewWsServer(h *Hub, rdc *redis.Client, auctionSvc auction.IAuctionService, bidSvc bidding.IBidService) *WsServer {
	srv := &WsServer{
		hub:        h,
		subMgr:     newSubscriptionManager(rdc, h),
		router:     NewRouter(),
		rdc:        rdc,
		auctionSvc: auctionSvc,
		bidSvc:     bidSvc,
	}
	srv.registerHandlers()
	return srv
}

// Handle upgrades the request and joins the client to its auction room.
func (s *WsServer) Handle(ginCtx *gin.Context) {
	auctionID, err := uuid.Parse(ginCtx.Query("auction_id"))
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"error": "auction_id is required"})
		return
	}
	userID, err := uuid.Parse(ginCtx.Query("user_id"))
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	rawConn, err := upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(4096)

	wsConn := &clientConn{rawConn: rawConn}
	s.hub.Join(auctionID.String(), wsConn)
	s.subMgr.Subscribe(auctionID.String()) // no-op when already subscribed

	if err := s.pushInitialSnapshot(ginCtx.Request.Context(), auctionID, wsConn); err != nil {
		zap.L().Warn("ws.snapshot", zap.Error(err))
	}

	go s.reader(auctionID, userID, wsConn)
	go s.pinger(wsConn)
}

func (s *WsServer) registerHandlers() {
	Register(
		s.router,
		"auctions/bid",
		func(ctx context.Context, cc *ConnContext, req BidRequest) (BidAck, error) {
			if !req.Amount.IsPositive() {
				return BidAck{}, errors.New("invalid_amount")
			}
			cmd := bidding.SubmitBidCommand{
				AuctionID: cc.AuctionID,
				BidderID:  cc.UserID,
				Amount:    req.Amount,
				BidType:   "manual",
				Proposal:  req.Proposal,
			}
			if req.MaxAmount != nil {
				cmd.MaxAmount.Decimal = *req.MaxAmount
				cmd.MaxAmount.Valid = true
			}
			b, err := s.bidSvc.SubmitBid(ctx, cmd)
			if err != nil {
				return BidAck{}, err
			}
			return BidAck{BidID: b.ID.String()}, nil
		},
	)

	Register(
		s.router,
		"auctions/retract",
		func(ctx context.Context, cc *ConnContext, req RetractRequest) (AckBody, error) {
			bidID, err := uuid.Parse(req.BidID)
			if err != nil {
				return AckBody{}, errors.New("invalid_bid_id")
			}
			_, err = s.bidSvc.RetractBid(ctx, bidID, req.Reason)
			return AckBody{}, err
		},
	)
}

// pushInitialSnapshot sends the auction state the client sees on join.
// Sealed auctions keep the running best bid hidden.
func (s *WsServer) pushInitialSnapshot(ctx context.Context, id uuid.UUID, conn *clientConn) error {
	ctx, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	a, err := s.auctionSvc.GetAuction(ctx, id)
	if err != nil {
		return err
	}
	body := gin.H{
		"auction_id":   a.ID.String(),
		"status":       string(a.Status),
		"auction_type": string(a.AuctionType),
		"start_date":   a.StartDate,
		"end_date":     a.EndDate,
		"total_bids":   a.TotalBids,
	}
	if a.CurrentBid.Valid && !a.BidsSealed() {
		body["current_bid"] = a.CurrentBid.Decimal
	}
	return conn.writeJSON(gin.H{
		"event": "auctions/snapshot",
		"body":  body,
	})
}

func (s *WsServer) reader(auctionID, userID uuid.UUID, conn *clientConn) {
	defer func() {
		s.hub.Leave(auctionID.String(), conn)
		s.subMgr.Unsubscribe(auctionID.String())
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	cc := &ConnContext{AuctionID: auctionID, UserID: userID, Server: s}

	for {
		var env Envelope
		if err := conn.rawConn.ReadJSON(&env); err != nil {
			return // client closed or errored
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1900*time.Millisecond)
		res, err := s.router.dispatch(ctx, cc, env)
		cancel()

		if err != nil {
			_ = conn.writeJSON(map[string]any{
				"event": "error",
				"body":  ErrorBody{Error: err.Error()},
			})
			continue
		}

		reply := map[string]any{"event": env.Event + "-ack"}
		if res != nil {
			reply["body"] = res
		}
		_ = conn.writeJSON(reply)
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			_ = conn.rawConn.Close()
			return
		}
	}
}
