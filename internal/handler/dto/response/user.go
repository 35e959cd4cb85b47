package response

import (
	"time"

	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	LoanCount int64      `json:"loanCount"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func FromUserView(v *queries.UserView) *UserResponse {
	res := &UserResponse{}
	_ = copier.Copy(res, v)
	return res
}

type UserDetailResponse struct {
	UserResponse
	RecentLoans []*LoanResponse `json:"recentLoans"`
}

func FromUserDetailView(v *queries.UserDetailView) *UserDetailResponse {
	res := &UserDetailResponse{}
	_ = copier.Copy(&res.UserResponse, &v.UserView)
	res.RecentLoans = make([]*LoanResponse, len(v.RecentLoans))
	for i := range v.RecentLoans {
		res.RecentLoans[i] = FromLoanView(&v.RecentLoans[i])
	}
	return res
}

type StatsResponse struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalBooks   int64 `json:"totalBooks"`
	ActiveLoans  int64 `json:"activeLoans"`
	OverdueLoans int64 `json:"overdueLoans"`
}

func FromStatsView(v *queries.StatsView) *StatsResponse {
	res := &StatsResponse{}
	_ = copier.Copy(res, v)
	return res
}
