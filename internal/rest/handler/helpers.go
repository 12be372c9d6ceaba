package handler

import (
	"errors"
	"net/http"
	"strconv"

	dbTypes "github.com/agorahq/agora/internal/database/types"
	restTypes "github.com/agorahq/agora/internal/rest/types"
	"github.com/bytedance/sonic"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// decodeBody parses a JSON request body into v.
func decodeBody(req bunrouter.Request, v any) error {
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}

	return nil
}

// writeOK writes a success envelope.
func writeOK(w http.ResponseWriter, data any) error {
	return bunrouter.JSON(w, restTypes.OK(data))
}

// writeFail writes an error envelope with the given status code.
func writeFail(w http.ResponseWriter, status int, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return bunrouter.JSON(w, restTypes.Fail(message))
}

// writeError maps a service error to its HTTP status and writes the
// envelope. Unknown errors are logged and become opaque 500s.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
		return writeFail(w, status, "Internal server error")
	}

	return writeFail(w, status, err.Error())
}

// statusOf maps domain sentinel errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case isNotFound(err):
		return http.StatusNotFound
	case isConflict(err):
		return http.StatusConflict
	case isForbidden(err):
		return http.StatusForbidden
	case isBadRequest(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isNotFound(err error) bool {
	for _, target := range []error{
		dbTypes.ErrTopicNotFound, dbTypes.ErrReplyNotFound, dbTypes.ErrCategoryNotFound,
		dbTypes.ErrUserNotFound, dbTypes.ErrPollNotFound, dbTypes.ErrReportNotFound,
		dbTypes.ErrNotificationNotFound, dbTypes.ErrSavedSearchNotFound, dbTypes.ErrBadgeNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

func isConflict(err error) bool {
	for _, target := range []error{
		dbTypes.ErrDuplicateCategorySlug, dbTypes.ErrDuplicatePoll, dbTypes.ErrDuplicateReport,
		dbTypes.ErrDuplicateSavedSearch, dbTypes.ErrReportAlreadyResolved,
		dbTypes.ErrPollAlreadyVoted, dbTypes.ErrPollHasVotes, dbTypes.ErrTopicArchived,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

func isForbidden(err error) bool {
	for _, target := range []error{
		dbTypes.ErrNotAdmin, dbTypes.ErrNotModerator, dbTypes.ErrNotReplyAuthor,
		dbTypes.ErrNotTopicAuthor, dbTypes.ErrSelfVote, dbTypes.ErrSelfReport,
		dbTypes.ErrInsufficientReputation, dbTypes.ErrTargetIsAdmin, dbTypes.ErrTargetIsModerator,
		dbTypes.ErrTopicLocked, dbTypes.ErrPollExpired, dbTypes.ErrEditWindowClosed,
		dbTypes.ErrUserBanned, dbTypes.ErrUserSuspended, dbTypes.ErrReplyDeleted,
		dbTypes.ErrDailyVoteLimit,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

func isBadRequest(err error) bool {
	for _, target := range []error{
		dbTypes.ErrTitleLength, dbTypes.ErrContentLength, dbTypes.ErrTooManyTags,
		dbTypes.ErrTooManyAttachments, dbTypes.ErrInvalidTopicType, dbTypes.ErrInvalidVoteValue,
		dbTypes.ErrMaxReplyDepth, dbTypes.ErrParentTopicMismatch, dbTypes.ErrQuoteTopicMismatch,
		dbTypes.ErrCategoryDepth, dbTypes.ErrCategoryCycle, dbTypes.ErrCategoryInactive,
		dbTypes.ErrTopicNotQuestion, dbTypes.ErrInvalidDNDWindow, dbTypes.ErrEmptyQuery,
		dbTypes.ErrReasonTooShort, dbTypes.ErrSuspensionLength, dbTypes.ErrInvalidResolution,
		dbTypes.ErrInvalidReportReason, dbTypes.ErrInvalidReportTarget, dbTypes.ErrReportDetailsTooLong,
		dbTypes.ErrPollOptionCount, dbTypes.ErrPollOptionEmpty, dbTypes.ErrPollOptionDuplicate,
		dbTypes.ErrPollOptionUnknown, dbTypes.ErrPollChoiceCount, dbTypes.ErrPollDeadlinePast,
		dbTypes.ErrInvalidPollType, dbTypes.ErrInvalidLeaderboard, dbTypes.ErrSameTopicMerge,
		dbTypes.ErrTooManySavedSearches,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// paramID parses a numeric path parameter.
func paramID(req bunrouter.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(req.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid " + name)
	}

	return id, nil
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(req bunrouter.Request, name string, fallback int) int {
	value := req.URL.Query().Get(name)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return parsed
}

// queryInt64 parses an int64 query parameter, zero when absent.
func queryInt64(req bunrouter.Request, name string) int64 {
	parsed, err := strconv.ParseInt(req.URL.Query().Get(name), 10, 64)
	if err != nil {
		return 0
	}

	return parsed
}
