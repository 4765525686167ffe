package authz

// Resource names the protected endpoint families.
type Resource string

const (
	ResourceOffers      Resource = "offers"
	ResourceOfferDetail Resource = "offerdetails"
	ResourceOrders      Resource = "orders"
	ResourceReviews     Resource = "reviews"
)

// policy is the full permission matrix. Each row is an ordered OR chain
// evaluated with short circuit; a missing row denies. Keeping the table as
// data rather than scattered conditionals makes the matrix testable as one
// unit.
var policy = map[Resource]map[Action][]Predicate{
	ResourceOffers: {
		ActionCreate:        {IsAdmin, IsBusiness},
		ActionRead:          {Anyone},
		ActionPartialUpdate: {IsAdmin, IsOwner},
		ActionFullUpdate:    {Forbidden},
		ActionDelete:        {IsAdmin, IsOwner},
	},
	ResourceOfferDetail: {
		ActionRead:          {IsAdmin, IsOwner, ReadOnly},
		ActionPartialUpdate: {IsAdmin, IsOwner},
		ActionDelete:        {IsAdmin, IsOwner},
	},
	ResourceOrders: {
		ActionCreate:        {IsAdmin, IsCustomer},
		ActionRead:          {IsAuthenticated},
		ActionPartialUpdate: {IsAdmin, IsOwner},
		ActionFullUpdate:    {Forbidden},
		ActionDelete:        {IsAdmin},
	},
	ResourceReviews: {
		ActionCreate:        {IsAdmin, IsCustomer},
		ActionRead:          {IsAuthenticated},
		ActionPartialUpdate: {IsAdmin, IsOwner},
		ActionFullUpdate:    {Forbidden},
		ActionDelete:        {IsStaff, IsOwner},
	},
}

// Can evaluates the policy row for (resource, action) against the actor and
// optional target. Unknown resource/action pairs deny.
func Can(actor *Actor, resource Resource, action Action, target *Target) bool {
	if actor == nil {
		actor = Anonymous()
	}
	actions, ok := policy[resource]
	if !ok {
		return false
	}
	predicates, ok := actions[action]
	if !ok {
		return false
	}
	for _, predicate := range predicates {
		if predicate(actor, action, target) {
			return true
		}
	}
	return false
}
