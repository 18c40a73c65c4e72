package server

import (
	"errors"
	"net/http"

	"volunteerhub/internal/utils"
	"volunteerhub/internal/validate"
	"volunteerhub/pkg/types"
)

func (s *Service) handleProjectDonations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, ok := s.loadVisibleProject(w, r)
	if !ok {
		return
	}

	donations, err := s.repos.Donations.DonationsByProject(ctx, project.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load project donations")
		return
	}

	donorIDs := make([]string, 0, len(donations))
	for _, donation := range donations {
		if donation.DonorID != nil && !donation.IsAnonymous {
			donorIDs = append(donorIDs, *donation.DonorID)
		}
	}

	donors, err := s.repos.Users.UsersByIDs(ctx, donorIDs)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load donors")
		return
	}
	names := make(map[string]string, len(donors))
	for _, donor := range donors {
		names[donor.ID] = donor.DisplayName()
	}

	out := make([]*types.PublicDonation, 0, len(donations))
	for _, donation := range donations {
		name := types.AnonymousDonorName
		if !donation.IsAnonymous && donation.DonorID != nil {
			if n, ok := names[*donation.DonorID]; ok {
				name = n
			}
		}
		out = append(out, &types.PublicDonation{
			ID:          donation.ID,
			DonorName:   name,
			AmountCents: donation.AmountCents,
			Comment:     donation.Comment,
			CreatedAt:   donation.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleDonate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	var input validate.DonationInput
	if !decodeOrReject(w, r, &input) {
		return
	}

	if errs := input.Validate(nil); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	project, err := s.repos.Projects.Project(ctx, input.ProjectID)
	if err != nil {
		if errors.Is(err, types.ErrProjectNotFound) {
			writeFieldErrors(w, map[string]string{"projectId": "Unknown project."})
			return
		}
		s.writeStoreError(w, r, err, "failed to load project for donation")
		return
	}

	if errs := validate.DonationAmount(project, input.AmountCents); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	donation := &types.Donation{
		ProjectID:   project.ID,
		DonorID:     utils.StringPtr(user.ID),
		AmountCents: input.AmountCents,
		IsAnonymous: input.IsAnonymous,
		Comment:     utils.TrimmedPtr(input.Comment),
	}

	// The amount is checked again under the row lock; another donation may
	// have landed in between.
	updated, err := s.repos.Donations.Donate(ctx, donation)
	if err != nil {
		if errs := validate.DonationError(err); len(errs) > 0 {
			writeFieldErrors(w, errs)
			return
		}
		s.writeStoreError(w, r, err, "failed to book donation")
		return
	}

	s.logger.WithField("project_id", project.ID).
		WithField("donation_id", donation.ID).
		WithField("amount", utils.FormatCents(donation.AmountCents)).
		Info("donation booked")

	writeJSON(w, http.StatusCreated, &types.DonationReceipt{Donation: donation, Project: updated})
}

func (s *Service) donationCards(r *http.Request, donations []*types.Donation) ([]*types.DonationCard, error) {
	projectIDs := make([]string, 0, len(donations))
	for _, donation := range donations {
		projectIDs = append(projectIDs, donation.ProjectID)
	}

	projects, err := s.repos.Projects.ProjectsByIDs(r.Context(), utils.Unique(projectIDs))
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(projects))
	for _, project := range projects {
		titles[project.ID] = project.Title
	}

	cards := make([]*types.DonationCard, 0, len(donations))
	for _, donation := range donations {
		cards = append(cards, &types.DonationCard{Donation: donation, ProjectTitle: titles[donation.ProjectID]})
	}
	return cards, nil
}

func (s *Service) handleDonorDonations(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	donations, err := s.repos.Donations.DonationsByDonor(r.Context(), user.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load donor donations")
		return
	}

	cards, err := s.donationCards(r, donations)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load donation projects")
		return
	}

	writeJSON(w, http.StatusOK, cards)
}
