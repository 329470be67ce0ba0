package a

import "context"

type Store interface {
	FindCountryByName(ctx context.Context, name string) (string, error)
	InsertVisited(ctx context.Context, code string) error
	SaveCountries(ctx context.Context, names []string) (int, error)
	ExecStatement(ctx context.Context, sql string) error
}

func bad(ctx context.Context, names []string, s Store) {
	for _, name := range names {
		code, _ := s.FindCountryByName(ctx, name) // want "potential N\\+1: FindCountryByName called inside loop - load once with ListCountries"
		s.InsertVisited(ctx, code)                 // want "potential N\\+1: InsertVisited called inside loop - consider batching"
	}
}

func good(ctx context.Context, names []string, stmts []string, s Store) {
	s.SaveCountries(ctx, names)

	for _, stmt := range stmts {
		s.ExecStatement(ctx, stmt)
	}

	for _, name := range names {
		go func(n string) {
			s.InsertVisited(ctx, n)
		}(name)
	}
}
