package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/MixinNetwork/candy/machine"
	"github.com/go-resty/resty/v2"
)

// Client talks to the external collectible registry that owns actual token
// custody, the engine only sends it issue and transfer instructions.
type Client struct {
	rc *resty.Client
}

func NewClient(endpoint string) *Client {
	rc := resty.New()
	rc.SetBaseURL(endpoint)
	rc.SetTimeout(10 * time.Second)
	return &Client{rc: rc}
}

func (c *Client) Issue(ctx context.Context, instr *machine.IssueInstruction) error {
	resp, err := c.rc.R().SetContext(ctx).SetBody(instr).Post("/tokens")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("registry issue %d %s", resp.StatusCode(), resp.String())
	}
	return nil
}

func (c *Client) Transfer(ctx context.Context, instr *machine.TransferInstruction) error {
	resp, err := c.rc.R().SetContext(ctx).SetBody(instr).Post("/transfers")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("registry transfer %d %s", resp.StatusCode(), resp.String())
	}
	return nil
}
