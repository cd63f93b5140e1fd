// Package observable decorates command and query handlers with logging, metrics and tracing.
//
//	handler, _ := observable.NewCommandWrapper[submitborrowrequest.Command](
//		submitborrowrequest.NewCommandHandler(...),
//		observable.WithCommandLogging[submitborrowrequest.Command](logger),
//		observable.WithCommandMetrics[submitborrowrequest.Command](metrics),
//	)
//
// The wrapped handlers stay free of observability code, they only report their
// business outcome and retry metadata through shell.HandlerResult.
package observable
