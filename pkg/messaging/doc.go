// Package messaging carries execution contexts over NATS.
//
// Publisher copies the okapi headers of the bound execution context into the
// NATS message header. Subscribe decodes them on the receiving side with
// execctx.FromMessageHeaders and runs the handler with the resulting context
// bound, so downstream HTTP calls made through execctx.Transport reuse the
// tenant, token and request id of the original request.
//
//	conn, err := messaging.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	pub := messaging.NewPublisher(conn)
//	_ = pub.Publish(ctx, "orders.created", payload)
//
//	sub, err := messaging.Subscribe(conn, "orders.created", md, func(ctx context.Context, msg *nats.Msg) error {
//	    ec := execctx.MustCurrent(ctx)
//	    return index(ctx, ec.TenantID(), msg.Data)
//	})
package messaging
