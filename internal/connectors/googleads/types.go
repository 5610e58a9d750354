package googleads

// Request and response bodies of the REST calls, limited to the fields
// adsync reads or writes.

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results []struct {
		UserList struct {
			ResourceName string `json:"resourceName"`
			Name         string `json:"name"`
		} `json:"userList"`
	} `json:"results"`
}

type mutateUserListsRequest struct {
	Operations []userListOperation `json:"operations"`
}

type userListOperation struct {
	Create *userList `json:"create,omitempty"`
}

type userList struct {
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	MembershipStatus   string            `json:"membershipStatus"`
	MembershipLifeSpan string            `json:"membershipLifeSpan"`
	CrmBasedUserList   *crmBasedUserList `json:"crmBasedUserList,omitempty"`
}

type crmBasedUserList struct {
	UploadKeyType string `json:"uploadKeyType"`
}

type mutateResponse struct {
	Results []struct {
		ResourceName string `json:"resourceName"`
	} `json:"results"`
}

type createJobRequest struct {
	Job offlineUserDataJob `json:"job"`
}

type offlineUserDataJob struct {
	Type                          string                 `json:"type"`
	CustomerMatchUserListMetadata *customerMatchMetadata `json:"customerMatchUserListMetadata,omitempty"`
}

type customerMatchMetadata struct {
	UserList string `json:"userList"`
}

type createJobResponse struct {
	ResourceName string `json:"resourceName"`
}

type addOperationsRequest struct {
	Operations           []jobOperation `json:"operations"`
	EnablePartialFailure bool           `json:"enablePartialFailure"`
}

type jobOperation struct {
	Create userData `json:"create"`
}

type userData struct {
	UserIdentifiers []userIdentifier `json:"userIdentifiers"`
}

type userIdentifier struct {
	HashedEmail string `json:"hashedEmail"`
}

type addOperationsResponse struct {
	PartialFailureError *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"partialFailureError"`
}

type runJobResponse struct {
	Name string `json:"name"`
}
