// chat-cli is a terminal client for one community chat room. It signs in
// with a portal token, opens the room through the sync engine and renders
// it with bubbletea.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"communitychat/internal/chat/api"
	"communitychat/internal/client"
	"communitychat/internal/common"
	"communitychat/internal/config"
	"communitychat/internal/logging"
	"communitychat/internal/syncengine"
	"communitychat/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		grpcAddr  string
		httpURL   string
		token     string
		roomID    uint64
		logOutput string
	)

	flagSet := pflag.NewFlagSet("chat-cli", pflag.ContinueOnError)
	flagSet.StringVar(&grpcAddr, "grpc", "localhost:7003", "chat service gRPC address")
	flagSet.StringVar(&httpURL, "http", "http://localhost:8080/api/v1", "HTTP API root (uploads and realtime)")
	flagSet.StringVar(&token, "token", os.Getenv("CHAT_TOKEN"), "portal access token (default $CHAT_TOKEN)")
	flagSet.Uint64Var(&roomID, "room", 0, "room to open (default: first visible room)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if token == "" {
		return errors.New("--token or CHAT_TOKEN is required")
	}

	actor, err := common.UnverifiedActor(token)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}

	// stdout belongs to the TUI
	logger := logging.Discard()
	if logOutput != "" {
		var closer io.Closer
		logger, closer, err = logging.New(config.LoggingConfig{Level: "debug", Format: "json", OutputPath: logOutput})
		if err != nil {
			return err
		}
		defer closer.Close()
	}

	conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial chat service: %w", err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rpc := client.NewRPC(conn, httpURL, token, nil)
	room, err := pickRoom(ctx, rpc, roomID)
	if err != nil {
		return err
	}

	displayName := actor.DisplayName
	if displayName == "" {
		displayName = actor.Handle
	}
	engine, err := syncengine.New(rpc, client.NewDialer(httpURL, token, logger),
		api.PresenceInfo{UserID: actor.UserID, DisplayName: displayName},
		syncengine.DefaultConfig(), clockwork.NewRealClock(), logger)
	if err != nil {
		return err
	}

	engineCtx, cancelEngine := context.WithCancel(ctx)
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		_ = engine.Run(engineCtx)
	}()
	defer func() {
		cancelEngine()
		<-engineDone
	}()

	openCtx, cancelOpen := context.WithTimeout(ctx, 15*time.Second)
	defer cancelOpen()
	if err := engine.Open(openCtx, room.ID); err != nil {
		return fmt.Errorf("open room %d: %w", room.ID, err)
	}
	if err := engine.MarkRead(ctx); err != nil {
		logger.Warn("mark read failed", "room_id", room.ID, "error", err)
	}

	_, err = tea.NewProgram(tui.NewRoomModel(engine, room.Name, actor.UserID), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func pickRoom(ctx context.Context, rpc *client.RPC, roomID uint64) (api.Room, error) {
	resp, err := rpc.ListRooms(ctx)
	if err != nil {
		return api.Room{}, fmt.Errorf("list rooms: %w", err)
	}
	for _, r := range resp.Rooms {
		if roomID == 0 || r.ID == roomID {
			return r, nil
		}
	}
	if roomID == 0 {
		return api.Room{}, errors.New("no rooms are visible to this account")
	}
	return api.Room{}, fmt.Errorf("room %d is not visible to this account", roomID)
}

