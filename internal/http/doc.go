// Package httpapp provides the HTTP server for the storyboard backend.
//
//	@title						Storyboard API
//	@version					1.0
//	@description				A minimal message-board backend: topics, posts, and a shared-secret write gate.
//	@description
//	@description				## Writing
//	@description
//	@description				Post creation and updates require the shared secret header:
//	@description				```
//	@description				X-Not-Very-Secret-Key: <secret>
//	@description				```
//	@description				Every post carries an `author_code`: a 64-character token the author
//	@description				picks at creation and must present again to edit the post later. It is
//	@description				never returned by any read endpoint.
//	@description
//	@description				Topic creation is open.
//
//	@license.name				MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@securityDefinitions.apikey	WriteSecret
//	@in							header
//	@name						X-Not-Very-Secret-Key
//	@description				Shared write secret configured out-of-band
//
//	@tag.name					Posts
//	@tag.description			Create, update and browse board posts. Updates require the post's original author_code.
//
//	@tag.name					Topics
//	@tag.description			Discussion topics grouping posts.
//
//	@tag.name					Meta
//	@tag.description			Service banner and board counters.
//
//	@tag.name					Admin
//	@tag.description			Moderation endpoints. Requires X-Admin-Secret header.
package httpapp
