package domain

const (
	PermissionReadIssue     = "JetBrains.YouTrack.READ_ISSUE"
	PermissionCreateIssue   = "JetBrains.YouTrack.CREATE_ISSUE"
	PermissionUpdateIssue   = "JetBrains.YouTrack.UPDATE_ISSUE"
	PermissionCreateComment = "JetBrains.YouTrack.CREATE_COMMENT"
	PermissionUpdateArticle = "JetBrains.YouTrack.UPDATE_ARTICLE"
)

// PermissionCacheItem is one granted permission. A nil ProjectID is a global grant.
type PermissionCacheItem struct {
	Permission string
	ProjectID  *string
}

func (p PermissionCacheItem) Global() bool {
	return p.ProjectID == nil
}

func ProjectPermission(permission, projectID string) PermissionCacheItem {
	return PermissionCacheItem{Permission: permission, ProjectID: &projectID}
}

func GlobalPermission(permission string) PermissionCacheItem {
	return PermissionCacheItem{Permission: permission}
}

func ClonePermissions(items []PermissionCacheItem) []PermissionCacheItem {
	if items == nil {
		return nil
	}
	out := make([]PermissionCacheItem, 0, len(items))
	for _, item := range items {
		if item.ProjectID != nil {
			projectID := *item.ProjectID
			item.ProjectID = &projectID
		}
		out = append(out, item)
	}
	return out
}
