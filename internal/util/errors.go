package util

import (
	"errors"
	"fmt"

	"skillkart_backend/internal/progression"
)

var (
	ErrUserNotFound       = fmt.Errorf("%w: 用户不存在", progression.ErrNotFound)
	ErrProfileNotFound    = fmt.Errorf("%w: profile not set up", progression.ErrNotFound)
	ErrRoadmapNotFound    = fmt.Errorf("%w: roadmap not found", progression.ErrNotFound)
	ErrWeekNotFound       = fmt.Errorf("%w: week not found", progression.ErrNotFound)
	ErrStepNotFound       = fmt.Errorf("%w: step not found", progression.ErrNotFound)
	ErrResourceNotFound   = fmt.Errorf("%w: resource not found", progression.ErrNotFound)
	ErrBadgeNotFound      = fmt.Errorf("%w: badge not found", progression.ErrNotFound)
	ErrEmailRegistered    = fmt.Errorf("%w: 该邮箱已被注册", progression.ErrConflict)
	ErrProfileExists      = fmt.Errorf("%w: profile already exists", progression.ErrConflict)
	ErrBadgeCodeTaken     = fmt.Errorf("%w: badge code already exists", progression.ErrConflict)
	ErrAlreadyEnrolled    = fmt.Errorf("%w: already enrolled in roadmap", progression.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: 邮箱或密码错误", progression.ErrValidation)
	ErrCompletionLocked   = fmt.Errorf("%w: completed resources cannot be reopened", progression.ErrValidation)
	ErrSelfFollow         = fmt.Errorf("%w: cannot follow yourself", progression.ErrValidation)
	ErrInvalidXPAmount    = fmt.Errorf("%w: xp amount must be positive", progression.ErrValidation)
)

var ErrPermissionDenied = errors.New("permission denied")
