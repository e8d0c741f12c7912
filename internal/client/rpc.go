// Package client connects a sync engine to a running chat service: RPCs
// over gRPC, uploads over HTTP and the room channel over a websocket.
package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/goccy/go-json"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
	"communitychat/internal/syncengine"
)

var _ syncengine.ChatAPI = (*RPC)(nil)

// RPC is the engine's view of the chat service for one signed-in user.
type RPC struct {
	client  *api.Client
	token   string
	baseURL string
	http    *http.Client
}

// NewRPC wraps cc. baseURL is the HTTP API root, e.g.
// http://localhost:8080/api/v1.
func NewRPC(cc grpc.ClientConnInterface, baseURL, token string, httpClient *http.Client) *RPC {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RPC{
		client:  api.NewClient(cc),
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *RPC) authed(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
}

func (c *RPC) ListRooms(ctx context.Context) (*api.ListRoomsResponse, error) {
	return c.client.ListRooms(c.authed(ctx), &api.ListRoomsRequest{})
}

func (c *RPC) ListMessages(ctx context.Context, req *api.ListMessagesRequest) (*api.ListMessagesResponse, error) {
	return c.client.ListMessages(c.authed(ctx), req)
}

func (c *RPC) SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.SendMessageResponse, error) {
	return c.client.SendMessage(c.authed(ctx), req)
}

func (c *RPC) GetRole(ctx context.Context, req *api.GetRoleRequest) (*api.GetRoleResponse, error) {
	return c.client.GetRole(c.authed(ctx), req)
}

func (c *RPC) ListModerators(ctx context.Context, req *api.ListModeratorsRequest) (*api.ListModeratorsResponse, error) {
	return c.client.ListModerators(c.authed(ctx), req)
}

func (c *RPC) SetRole(ctx context.Context, req *api.SetRoleRequest) error {
	return c.client.SetRole(c.authed(ctx), req)
}

func (c *RPC) Mute(ctx context.Context, req *api.MuteRequest) (*api.MuteResponse, error) {
	return c.client.Mute(c.authed(ctx), req)
}

func (c *RPC) Unmute(ctx context.Context, req *api.UnmuteRequest) error {
	return c.client.Unmute(c.authed(ctx), req)
}

func (c *RPC) TogglePin(ctx context.Context, req *api.MessageRequest) (*api.TogglePinResponse, error) {
	return c.client.TogglePin(c.authed(ctx), req)
}

func (c *RPC) DeleteMessage(ctx context.Context, req *api.MessageRequest) error {
	return c.client.DeleteMessage(c.authed(ctx), req)
}

func (c *RPC) Report(ctx context.Context, req *api.ReportRequest) error {
	return c.client.Report(c.authed(ctx), req)
}

func (c *RPC) MarkRead(ctx context.Context, req *api.MarkReadRequest) error {
	return c.client.MarkRead(c.authed(ctx), req)
}

// UploadImage posts the file as multipart field "file" to /media.
func (c *RPC) UploadImage(ctx context.Context, filename, contentType string, data []byte) (*api.UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/media", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &common.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, api.ReadError(resp)
	}
	var out api.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &common.TransportError{Err: fmt.Errorf("decode upload response: %w", err)}
	}
	return &out, nil
}
