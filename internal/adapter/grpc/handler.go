package grpc

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

const planIDMetadataKey = "x-search-plan-id"

type Searcher interface {
	Search(ctx context.Context, params url.Values) (*domain.SearchResult, error)
}

type Handler struct {
	searcher Searcher
	logger   *logger.Logger
}

func NewHandler(searcher Searcher, log *logger.Logger) *Handler {
	return &Handler{searcher: searcher, logger: log.Named("GRPCHandler")}
}

func (h *Handler) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	params, err := structToValues(req)
	if err != nil {
		return nil, toStatus(err)
	}

	res, err := h.searcher.Search(ctx, params)
	if err != nil {
		return nil, toStatus(err)
	}

	if res.PlanID != "" {
		if err := grpc.SetHeader(ctx, metadata.Pairs(planIDMetadataKey, res.PlanID)); err != nil {
			h.logger.Debug("Failed to set plan id header", zap.Error(err))
		}
	}

	out, err := resultToStruct(res)
	if err != nil {
		h.logger.Error("Failed to convert search result", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return out, nil
}

// structToValues flattens request fields into query parameters. Lists become
// repeated values; null fields are treated as absent.
func structToValues(s *structpb.Struct) (url.Values, error) {
	params := url.Values{}
	for key, v := range s.GetFields() {
		if list := v.GetListValue(); list != nil {
			for _, item := range list.GetValues() {
				str, ok, err := scalarString(key, item)
				if err != nil {
					return nil, err
				}
				if ok {
					params.Add(key, str)
				}
			}
			continue
		}
		str, ok, err := scalarString(key, v)
		if err != nil {
			return nil, err
		}
		if ok {
			params.Add(key, str)
		}
	}
	return params, nil
}

func scalarString(key string, v *structpb.Value) (string, bool, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, true, nil
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64), true, nil
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue), true, nil
	case *structpb.Value_NullValue, nil:
		return "", false, nil
	}
	return "", false, domain.NewInvalidParameter(key, "", "nested values are not supported")
}

func resultToStruct(res *domain.SearchResult) (*structpb.Struct, error) {
	data, err := jsonCodec.Marshal(res)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := jsonCodec.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func toStatus(err error) error {
	var invalid *domain.InvalidParameterError
	switch {
	case errors.As(err, &invalid):
		return status.Error(codes.InvalidArgument, invalid.Error())
	case errors.Is(err, domain.ErrInvalidParameter):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "search timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "search canceled")
	case errors.Is(err, domain.ErrUpstreamFailure):
		return status.Error(codes.Unavailable, "store unavailable")
	}
	return status.Error(codes.Internal, "internal error")
}
