package webhookscontroller

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"wfm-shifts-connector/controllers"
	"wfm-shifts-connector/lib/notify"
	registrationhandler "wfm-shifts-connector/lib/registration"
	"wfm-shifts-connector/lib/secure"
	teamshandler "wfm-shifts-connector/lib/teams"
	apimodels "wfm-shifts-connector/models/api"
	teamsapimodels "wfm-shifts-connector/models/api/teams"
)

const passthroughHeader = "X-MS-WFMPassthrough"

type teamsWebhookController struct {
	controllers.BaseAPIController
}

func InitWebhookRouters(app *fiber.App) {
	controller := teamsWebhookController{}
	app.Post("teams/:teamId/update", controller.update)
	app.Get("teams/:teamId/check-setup", controller.checkSetup)
}

// @Summary Inbound scheduler UI change batch
// @Tags Webhooks
// @Description Decrypts the encrypted change batch and applies it to the WFM backend
// @Param	teamId				path		string	true	"team id"
// @Param	X-MS-WFMPassthrough	header		string	false	"integration passthrough value"
// @Success 200 {object} teamsapimodels.AckBatch
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /v1/teams/{teamId}/update [post]
func (c *teamsWebhookController) update(ctx *fiber.Ctx) error {
	teamID := ctx.Params("teamId")
	if teamID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("team id is not specified"))
	}
	logger := log.WithField("team_id", teamID)

	reg, err := registrationhandler.Instance.Credentials(teamID)
	if err != nil {
		logger.WithError(err).Error("failed to load integration registration")
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	if reg == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("integration is not registered for the team"))
	}

	// case-sensitive ordinal comparison is the sole authenticity signal
	authentic := ctx.Get(passthroughHeader) == reg.PassthroughValue

	codec, err := secure.NewCodec([]byte(reg.SharedSecret))
	if err != nil {
		logger.WithError(err).Error("registration carries an unusable shared secret")
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	plaintext, err := codec.Decrypt(ctx.Body())
	if err != nil {
		logger.WithError(err).Warn("failed to decrypt webhook payload")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("payload is malformed or tampered"))
	}

	var batch teamsapimodels.Batch
	if err = json.Unmarshal(plaintext, &batch); err != nil {
		logger.WithError(err).Warn("failed to parse webhook payload")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("payload is not a valid change batch"))
	}

	ack, err := teamshandler.Instance.ProcessBatch(ctx.UserContext(), teamID, reg.WfmEndpoint, authentic, batch)
	if err != nil {
		// no ack batch is sent: the UI retries the whole batch later
		logger.WithError(err).Error("failed to process change batch")
		notify.Instance.SyncFailure(teamID, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(ack)
}

// @Summary Connector setup check
// @Tags Webhooks
// @Description Verifies the registration and mappings required to serve the team
// @Param	teamId	path	string	true	"team id"
// @Success 200
// @Failure 500 {object} apimodels.Response
// @router /v1/teams/{teamId}/check-setup [get]
func (c *teamsWebhookController) checkSetup(ctx *fiber.Ctx) error {
	teamID := ctx.Params("teamId")
	if teamID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("team id is not specified"))
	}
	if err := registrationhandler.Instance.CheckSetup(teamID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.SendStatus(fiber.StatusOK)
}
