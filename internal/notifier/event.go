package notifier

import (
	"fmt"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"rank-service/internal/repository/model"
)

const (
	RankUpdateType           = "ranksystem.RankUpdateMessage"
	RankPermissionUpdateType = "ranksystem.RankPermissionUpdateMessage"
	PlayerProfileUpdateType  = "ranksystem.PlayerProfileUpdateMessage"
)

// event is the envelope published by every notifier. The payload is a
// google.protobuf.Struct so consumers can decode it without generated types.
type event struct {
	messageType string
	payload     *structpb.Struct
}

func newEvent(messageType string, changeType ChangeType, fields map[string]*structpb.Value) event {
	values := map[string]*structpb.Value{
		"eventId":    structpb.NewStringValue(uuid.NewString()),
		"type":       structpb.NewStringValue(messageType),
		"changeType": structpb.NewStringValue(string(changeType)),
	}
	for k, v := range fields {
		values[k] = v
	}

	return event{messageType: messageType, payload: &structpb.Struct{Fields: values}}
}

func rankUpdateEvent(rank *model.Rank, changeType ChangeType) event {
	fields := map[string]*structpb.Value{}
	if rank != nil {
		fields["rank"] = structpb.NewStructValue(rank.ToStruct())
	}
	return newEvent(RankUpdateType, changeType, fields)
}

func rankPermissionUpdateEvent(rank string, permission string, changeType ChangeType) event {
	return newEvent(RankPermissionUpdateType, changeType, map[string]*structpb.Value{
		"rank":       structpb.NewStringValue(rank),
		"permission": structpb.NewStringValue(permission),
	})
}

func playerProfileUpdateEvent(player string, field ProfileField, value string, changeType ChangeType) event {
	return newEvent(PlayerProfileUpdateType, changeType, map[string]*structpb.Value{
		"player": structpb.NewStringValue(player),
		"field":  structpb.NewStringValue(string(field)),
		"value":  structpb.NewStringValue(value),
	})
}

func (e event) marshal() ([]byte, error) {
	bytes, err := proto.Marshal(e.payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", e.messageType, err)
	}
	return bytes, nil
}
