package apiclient

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/skip2/go-qrcode"

	"presensi/internal/dto"
)

// QRFetcher 获取新的二维码令牌
type QRFetcher func(ctx context.Context) (*dto.QRCodeResponse, error)

// QRDisplay 在终端展示考勤二维码并倒计时
// AutoRefresh 为 true 时到期自动重新获取，否则到期即返回
type QRDisplay struct {
	Fetch       QRFetcher
	Out         io.Writer
	AutoRefresh bool
	// Interval 倒计时步长，默认 1s
	Interval time.Duration

	current   *dto.QRCodeResponse
	remaining int
	lastErr   error
}

// NewQRDisplay 以班次 ID 绑定 WorkScheduleService.GetQrCode
func NewQRDisplay(ws *WorkScheduleService, scheduleID uint, out io.Writer, autoRefresh bool) *QRDisplay {
	return &QRDisplay{
		Fetch: func(ctx context.Context) (*dto.QRCodeResponse, error) {
			return ws.GetQrCode(ctx, scheduleID)
		},
		Out:         out,
		AutoRefresh: autoRefresh,
	}
}

// Token 当前展示的令牌
func (d *QRDisplay) Token() string {
	if d.current == nil {
		return ""
	}
	return d.current.QRToken
}

// Remaining 剩余秒数
func (d *QRDisplay) Remaining() int {
	return d.remaining
}

// Err 最近一次获取失败的错误
func (d *QRDisplay) Err() error {
	return d.lastErr
}

// String 当前状态的一行描述
func (d *QRDisplay) String() string {
	switch {
	case d.lastErr != nil:
		return "Error: " + d.lastErr.Error()
	case d.current == nil:
		return "Loading QR code..."
	case d.remaining <= 0:
		return "QR code expired"
	}
	return fmt.Sprintf("Expires in %ds", d.remaining)
}

// Run 阻塞直到 ctx 取消；未开启自动刷新时令牌到期后返回
// 获取失败时展示错误并在下一拍重试
func (d *QRDisplay) Run(ctx context.Context) error {
	interval := d.Interval
	if interval <= 0 {
		interval = time.Second
	}

	d.refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if d.current == nil {
			d.refresh(ctx)
			continue
		}

		d.remaining--
		if d.remaining > 0 {
			fmt.Fprintf(d.Out, "\r%s   ", d)
			continue
		}

		fmt.Fprintf(d.Out, "\r%s\n", d)
		if !d.AutoRefresh {
			return nil
		}
		d.refresh(ctx)
	}
}

func (d *QRDisplay) refresh(ctx context.Context) {
	res, err := d.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		d.current = nil
		d.lastErr = err
		fmt.Fprintf(d.Out, "%s (retrying)\n", d)
		return
	}

	d.current = res
	d.remaining = res.ExpiresIn
	d.lastErr = nil
	d.render()
}

func (d *QRDisplay) render() {
	q, err := qrcode.New(d.current.QRToken, qrcode.Medium)
	if err != nil {
		d.lastErr = err
		fmt.Fprintf(d.Out, "%s\n", d)
		return
	}
	fmt.Fprintln(d.Out, q.ToSmallString(false))
	fmt.Fprintf(d.Out, "Schedule: %s (%s-%s)\n", d.current.Schedule.Name, d.current.Schedule.StartTime, d.current.Schedule.EndTime)
	fmt.Fprintf(d.Out, "Token: %s\n", d.current.QRToken)
	fmt.Fprintf(d.Out, "%s\n", d)
}
