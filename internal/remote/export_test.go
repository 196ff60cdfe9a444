package remote

// SetBeforePush runs hook between the local commit and the push.
func SetBeforePush(g *GitRepo, hook func()) { g.beforePush = hook }
