// Package cookie manages HTTP cookies with shared defaults and optional
// signing or encryption.
//
//	m, err := cookie.NewFromConfig(cfg.Cookie)
//	err = m.SetSigned(w, "__remember_me", selector+":"+validator, cookie.WithMaxAge(28*24*3600))
//	value, err := m.GetSigned(r, "__remember_me")
//
// Reading a tampered signed cookie fails with ErrInvalidSignature.
package cookie
