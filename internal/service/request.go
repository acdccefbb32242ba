package service

import (
	"errors"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"rank-service/internal/errs"
	"strings"
)

func requiredString(req *structpb.Struct, key string) (string, error) {
	v, ok := req.GetFields()[key]
	if !ok || v.GetStringValue() == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	return v.GetStringValue(), nil
}

// listEntry is requiredString for values stored in a player's comma-joined
// lists, where a comma would split the entry on reload.
func listEntry(req *structpb.Struct, key string) (string, error) {
	v, err := requiredString(req, key)
	if err != nil {
		return "", err
	}
	if strings.Contains(v, ",") {
		return "", status.Errorf(codes.InvalidArgument, "%s must not contain a comma", key)
	}
	return v, nil
}

// optionalString returns nil unless key is present and holds a string.
func optionalString(req *structpb.Struct, key string) *string {
	v, ok := req.GetFields()[key]
	if !ok {
		return nil
	}
	if _, isString := v.GetKind().(*structpb.Value_StringValue); !isString {
		return nil
	}
	s := v.GetStringValue()
	return &s
}

func stringList(req *structpb.Struct, key string) ([]string, bool) {
	v, ok := req.GetFields()[key]
	if !ok || v.GetListValue() == nil {
		return nil, false
	}

	values := make([]string, 0, len(v.GetListValue().GetValues()))
	for _, item := range v.GetListValue().GetValues() {
		values = append(values, item.GetStringValue())
	}
	return values, true
}

// statusError maps the error categories onto gRPC codes. The message is the
// human readable reason shown to admins.
func statusError(logger *zap.SugaredLogger, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, errs.NotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, errs.AlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, errs.InvalidReference):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		logger.Errorw("request failed", "error", err)
		return status.Error(codes.Internal, err.Error())
	}
}
