package handler

import (
	"net/http"

	"github.com/osse101/GameBoxBot_Go/internal/command"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// CreateCommandRequest defines a custom chat command. Enabled defaults to true.
type CreateCommandRequest struct {
	Name            string   `json:"name" validate:"required,max=33"`
	Description     string   `json:"description" validate:"max=200"`
	Response        string   `json:"response" validate:"required,max=450"`
	Aliases         []string `json:"aliases" validate:"max=10,dive,required,max=33"`
	Enabled         *bool    `json:"enabled"`
	CooldownSeconds int      `json:"cooldown_seconds" validate:"min=0,max=3600"`
	Level           string   `json:"level" validate:"omitempty,oneof=viewer admin"`
}

func (req CreateCommandRequest) command() domain.CustomCommand {
	return domain.CustomCommand{
		Name:            req.Name,
		Description:     req.Description,
		Response:        req.Response,
		Aliases:         req.Aliases,
		Enabled:         req.Enabled == nil || *req.Enabled,
		CooldownSeconds: req.CooldownSeconds,
		Level:           domain.CommandLevel(req.Level),
	}
}

// UpdateCommandRequest changes only the fields present. The name is fixed.
type UpdateCommandRequest struct {
	Description     *string   `json:"description"`
	Response        *string   `json:"response"`
	Aliases         *[]string `json:"aliases"`
	Enabled         *bool     `json:"enabled"`
	CooldownSeconds *int      `json:"cooldown_seconds"`
	Level           *string   `json:"level"`
}

func (req UpdateCommandRequest) patch() command.Patch {
	p := command.Patch{
		Description:     req.Description,
		Response:        req.Response,
		Aliases:         req.Aliases,
		Enabled:         req.Enabled,
		CooldownSeconds: req.CooldownSeconds,
	}
	if req.Level != nil {
		level := domain.CommandLevel(*req.Level)
		p.Level = &level
	}
	return p
}

// HandleListCommands lists the custom chat commands
// @Summary List custom commands
// @Tags commands
// @Produce json
// @Success 200 {array} domain.CustomCommand
// @Router /api/v1/commands [get]
func HandleListCommands(svc command.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmds, err := svc.List(r.Context())
		if err != nil {
			respondServiceError(w, r, "list commands", err)
			return
		}
		if cmds == nil {
			cmds = []domain.CustomCommand{}
		}
		respondJSON(w, http.StatusOK, cmds)
	}
}

// HandleCreateCommand adds a custom chat command
// @Summary Create custom command
// @Tags commands
// @Accept json
// @Produce json
// @Param request body CreateCommandRequest true "Command"
// @Success 201 {object} domain.CustomCommand
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/commands [post]
func HandleCreateCommand(svc command.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateCommandRequest
		if !decodeAndValidate(w, r, &req, "create command") {
			return
		}
		cmd, err := svc.Create(r.Context(), req.command())
		if err != nil {
			respondServiceError(w, r, "create command", err)
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgCommandCreated, "command", cmd.Name)
		respondJSON(w, http.StatusCreated, cmd)
	}
}

// HandleUpdateCommand edits a custom chat command found by name or alias
// @Summary Update custom command
// @Tags commands
// @Accept json
// @Produce json
// @Param name path string true "Command name or alias"
// @Param request body UpdateCommandRequest true "Fields to change"
// @Success 200 {object} domain.CustomCommand
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/commands/{name} [put]
func HandleUpdateCommand(svc command.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := pathParam(w, r, ParamCommand)
		if !ok {
			return
		}
		var req UpdateCommandRequest
		if !decodeAndValidate(w, r, &req, "update command") {
			return
		}
		cmd, err := svc.Update(r.Context(), name, req.patch())
		if err != nil {
			respondServiceError(w, r, "update command", err)
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgCommandUpdated, "command", cmd.Name)
		respondJSON(w, http.StatusOK, cmd)
	}
}

// HandleDeleteCommand removes a custom chat command
// @Summary Delete custom command
// @Tags commands
// @Produce json
// @Param name path string true "Command name or alias"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/commands/{name} [delete]
func HandleDeleteCommand(svc command.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := pathParam(w, r, ParamCommand)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), name); err != nil {
			respondServiceError(w, r, "delete command", err)
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgCommandDeleted, "command", name)
		respondJSON(w, http.StatusOK, MessageResponse{Message: MsgCommandDeleted})
	}
}
