package apiv1

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"wfm-shifts-connector/controllers"
	filestorage "wfm-shifts-connector/lib/file-storage"
	mappinghandler "wfm-shifts-connector/lib/mapping"
	registrationhandler "wfm-shifts-connector/lib/registration"
	usermaphandler "wfm-shifts-connector/lib/usermap"
	apimodels "wfm-shifts-connector/models/api"
	adminapimodels "wfm-shifts-connector/models/api/admin"
)

const userMappingTemplate = "user-mappings.xlsx"

type adminApiController struct {
	controllers.BaseAPIController
}

func InitAdminApiRouters(app *fiber.App) {
	controller := adminApiController{}

	registration := fiber.New()
	app.Mount("/registration", registration)
	registration.Post("save", controller.registrationSave)
	registration.Get("list", controller.registrationList)
	registration.Get(":teamId", controller.registrationGet)
	registration.Delete(":teamId", controller.registrationDelete)

	mapping := fiber.New()
	app.Mount("/mapping", mapping)
	mapping.Post("team/save", controller.teamMappingSave)
	mapping.Get("team/list", controller.teamMappingList)
	mapping.Delete("team/:teamId", controller.teamMappingDelete)
	mapping.Post("user/save", controller.userMappingSave)
	mapping.Get("user/:teamId/list", controller.userMappingList)
	mapping.Delete("user/:teamId/:userId", controller.userMappingDelete)
	mapping.Get("user/:teamId/export", controller.userMappingExport)
	mapping.Post("user/:teamId/import", controller.userMappingImport)
	mapping.Get("user/template", controller.templateGet)
	mapping.Post("user/template", controller.templateUpload)
}

// @Summary Save integration registration
// @Tags Admin API. Registrations
// @Description Saves the workforce integration registration for a team
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		adminapimodels.RegistrationData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/registration/save [post]
func (a *adminApiController) registrationSave(ctx *fiber.Ctx) error {
	var payload adminapimodels.RegistrationData
	if err := a.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := registrationhandler.Instance.Save(payload); err != nil {
		log.WithError(err).Error("failed to save integration registration")
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary List integration registrations
// @Tags Admin API. Registrations
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]adminapimodels.RegistrationData}
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/registration/list [get]
func (a *adminApiController) registrationList(ctx *fiber.Ctx) error {
	list, err := registrationhandler.Instance.List()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Get the team registration
// @Tags Admin API. Registrations
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	teamId				path		string	true	"team id"
// @Success 200 {object} apimodels.Response{data=adminapimodels.RegistrationData}
// @Failure 401
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/registration/{teamId} [get]
func (a *adminApiController) registrationGet(ctx *fiber.Ctx) error {
	teamID := ctx.Params("teamId")
	rec, err := registrationhandler.Instance.Get(teamID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	if rec == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("registration not found"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(rec))
}

// @Summary Delete the team registration
// @Tags Admin API. Registrations
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	teamId				path		string	true	"team id"
// @Success 200 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/registration/{teamId} [delete]
func (a *adminApiController) registrationDelete(ctx *fiber.Ctx) error {
	teamID := ctx.Params("teamId")
	if err := registrationhandler.Instance.Delete(teamID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Save a team mapping
// @Tags Admin API. Mappings
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		adminapimodels.TeamMappingData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/mapping/team/save [post]
func (a *adminApiController) teamMappingSave(ctx *fiber.Ctx) error {
	var payload adminapimodels.TeamMappingData
	if err := a.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := mappinghandler.Instance.SaveTeam(payload); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary List team mappings
// @Tags Admin API. Mappings
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]adminapimodels.TeamMappingData}
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/mapping/team/list [get]
func (a *adminApiController) teamMappingList(ctx *fiber.Ctx) error {
	list, err := mappinghandler.Instance.ListTeams()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Delete a team mapping
// @Tags Admin API. Mappings
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	teamId				path		string	true	"team id"
// @Success 200 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/mapping/team/{teamId} [delete]
func (a *adminApiController) teamMappingDelete(ctx *fiber.Ctx) error {
	if err := mappinghandler.Instance.DeleteTeam(ctx.Params("teamId")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Save a user mapping
// @Tags Admin API. Mappings
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		adminapimodels.UserMappingData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/mapping/user/save [post]
func (a *adminApiController) userMappingSave(ctx *fiber.Ctx) error {
	var payload adminapimodels.UserMappingData
	if err := a.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := mappinghandler.Instance.SaveUser(payload); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary List active user mappings
// @Tags Admin API. Mappings
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	teamId				path		string	true	"team id"
// @Success 200 {object} apimodels.Response{data=[]adminapimodels.UserMappingData}
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/mapping/user/{teamId}/list [get]
func (a *adminApiController) userMappingList(ctx *fiber.Ctx) error {
	list, err := mappinghandler.Instance.ListUsers(ctx.Params("teamId"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Delete a user mapping
// @Tags Admin API. Mappings
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	teamId				path		string	true	"team id"
// @Param	userId				path		string	true	"scheduler user id"
// @Success 200 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/mapping/user/{teamId}/{userId} [delete]
func (a *adminApiController) userMappingDelete(ctx *fiber.Ctx) error {
	if err := mappinghandler.Instance.DeleteUser(ctx.Params("teamId"), ctx.Params("userId")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Export user mappings to Excel
// @Tags Admin API. Mappings
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	teamId				path		string	true	"team id"
// @Success 200
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/mapping/user/{teamId}/export [get]
func (a *adminApiController) userMappingExport(ctx *fiber.Ctx) error {
	data, err := usermaphandler.Instance.Export(ctx.UserContext(), ctx.Params("teamId"))
	if err != nil {
		log.WithError(err).Error("failed to export user mappings")
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	fileName := fmt.Sprintf("user-mappings-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}

// @Summary Import user mappings from Excel
// @Tags Admin API. Mappings
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	teamId				path		string	true	"team id"
// @Param	file				formData	file	true	"workbook"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/mapping/user/{teamId}/import [post]
func (a *adminApiController) userMappingImport(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buffer, err := file.Open()
	if err != nil {
		log.WithError(err).Error("failed to open uploaded workbook")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	defer buffer.Close()
	fileBody, err := io.ReadAll(buffer)
	if err != nil {
		log.WithError(err).Error("failed to read uploaded workbook")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	imported, err := usermaphandler.Instance.Import(ctx.UserContext(), ctx.Params("teamId"), fileBody)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{"imported": imported}))
}

// @Summary Download the user mapping template
// @Tags Admin API. Mappings
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/mapping/user/template [get]
func (a *adminApiController) templateGet(ctx *fiber.Ctx) error {
	body, err := filestorage.Instance.GetTemplate(ctx.UserContext(), userMappingTemplate)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+userMappingTemplate+`"`)
	return ctx.Send(body)
}

// @Summary Upload the user mapping template
// @Tags Admin API. Mappings
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	file				formData	file	true	"workbook"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/mapping/user/template [post]
func (a *adminApiController) templateUpload(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buffer, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	defer buffer.Close()
	fileBody, err := io.ReadAll(buffer)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = filestorage.Instance.UploadTemplate(ctx.UserContext(), userMappingTemplate, fileBody); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
