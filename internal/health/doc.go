// Package health provides liveness and readiness reporting for the route
// registry service.
//
// A Checker aggregates named readiness checks. Readiness turns unhealthy
// when any check is unhealthy or while the service is draining during
// shutdown.
//
//	checker := health.NewChecker(version, logger)
//	checker.RegisterCheck("routetable", health.ConditionCheck(table.Ready, "route table not loaded"))
//	checker.Register(router)
package health
