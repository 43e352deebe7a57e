// Package loader applies parsed policy documents to a voter registry.
//
// A document is applied as one mutation attributed to the caller in the
// context: either every grant, revoke and voter change commits, or none
// does.
//
//	l := loader.NewLoader(registry)
//	result, err := l.Load(identity.WithCaller(ctx, admin), file)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d change(s) in %s\n", result.Changes, result.Receipt.TxID)
package loader
