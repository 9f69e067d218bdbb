package webhook

import (
	"log/slog"
	"strings"

	"github.com/flaboy/aira-giftcard/pkg/extensions/payment"
	ptypes "github.com/flaboy/aira-giftcard/pkg/extensions/payment/types"
	"github.com/flaboy/aira-giftcard/pkg/reconcile"
	"github.com/flaboy/aira-giftcard/pkg/types"
	"github.com/flaboy/pin"
)

// Controller 入站支付回调边界。路径格式 "{provider}/..."，由宿主挂载。
// 任何应当让网关停止重试的结果都回200带汇总；只有载荷不可信或
// 结构非法才返回错误（4xx），网关对这类载荷重试没有意义。
type Controller struct {
	engine *reconcile.Engine
}

func NewController() *Controller {
	return &Controller{engine: reconcile.NewEngine()}
}

func (ct *Controller) HandleRequest(c *pin.Context, path string) error {
	name, rest, _ := strings.Cut(path, "/")

	provider := payment.Get(name)
	if provider == nil {
		c.JSON(404, map[string]string{"error": "Unknown payment provider"})
		return nil
	}

	conf, err := provider.VerifyNotification(c, rest)
	if err != nil {
		// 验证失败：无副作用地拒绝，usererror由框架渲染为客户端错误
		return err
	}

	// 用户显式取消走失败迁移，之后照常回200停掉重试
	if conf.Status == ptypes.StatusCancelled {
		if _, err := ct.engine.MarkFailed(conf.OrderNumber, conf.RawStatus); err != nil {
			slog.Error("[Webhook] Failed to mark order as failed",
				"order", conf.OrderNumber, "error", err)
		}
		c.JSON(200, &types.ReconcileSummary{Success: true, Results: []types.OrderResult{}})
		return nil
	}

	summary, err := ct.engine.Apply(conf)
	if err != nil {
		return err
	}

	c.JSON(200, summary)
	return nil
}
