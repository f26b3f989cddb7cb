package chat

import (
	"context"

	"go.uber.org/zap"
)

const failedReply = "I encountered an error processing your request: the assistant could not answer right now, please try again later."

// Router classifies a message and hands it to the query agent or the
// responder. It always produces a reply; failures are turned into text.
type Router struct {
	classifier Classifier
	query      QueryAgent
	responder  Responder
	log        *zap.Logger
}

func NewRouter(classifier Classifier, query QueryAgent, responder Responder, log *zap.Logger) *Router {
	return &Router{
		classifier: classifier,
		query:      query,
		responder:  responder,
		log:        log.Named("chat"),
	}
}

func (r *Router) Handle(ctx context.Context, userID, message string) string {
	intent, err := r.classifier.Classify(ctx, message)
	if err != nil {
		return r.failed(err)
	}

	var reply string
	switch intent {
	case DatabaseQuery:
		reply, err = r.query.Answer(ctx, userID, message)
	default:
		reply, err = r.responder.Respond(ctx, message)
	}
	if err != nil {
		return r.failed(err)
	}
	r.log.Debug("chat", zap.String("intent", string(intent)), zap.String("user_id", userID))
	return reply
}

// failed keeps the cause in the log; it may carry SQL or upstream details.
func (r *Router) failed(err error) string {
	r.log.Warn("chat failed", zap.Error(err))
	return failedReply
}
